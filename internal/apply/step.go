package apply

import (
	"fmt"
	"math"
)

// Step is one screen of a wizard. A step without fields is informational
// and always valid. Only counted steps contribute to progress.
type Step struct {
	Title   string
	Body    string
	Fields  []Field
	Counted bool
}

// Informational reports whether the step has no fields.
func (s Step) Informational() bool { return len(s.Fields) == 0 }

// Required returns the step restricted to its required fields.
func (s Step) Required() Step {
	out := s
	out.Fields = nil
	for _, f := range s.Fields {
		if f.Rule.Required {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// Definition is an ordered sequence of steps identified by a form id.
type Definition struct {
	ID    string
	Title string
	Steps []Step
}

// Total returns the number of steps.
func (d Definition) Total() int { return len(d.Steps) }

// CountedTotal returns the number of steps that count towards progress.
func (d Definition) CountedTotal() int {
	n := 0
	for _, s := range d.Steps {
		if s.Counted {
			n++
		}
	}
	return n
}

// Field looks up a field by name across all steps.
func (d Definition) Field(name string) (Field, bool) {
	for _, s := range d.Steps {
		for _, f := range s.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Progress returns the percentage of counted steps completed when the
// wizard sits at index. A counted step is completed once the index has
// moved past it; the terminal step is completed only by submission.
func (d Definition) Progress(index int, submitted bool) int {
	total := d.CountedTotal()
	if submitted {
		return 100
	}
	if total == 0 {
		return 0
	}
	done := 0
	for i := 0; i < index && i < len(d.Steps); i++ {
		if d.Steps[i].Counted {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

// Check reports structural mistakes in a definition: no steps, fields
// without names, duplicate names, select fields without options, file
// fields without a file rule.
func (d Definition) Check() error {
	if d.ID == "" {
		return fmt.Errorf("definition has no id")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("definition %s has no steps", d.ID)
	}
	seen := make(map[string]int)
	for i, s := range d.Steps {
		for _, f := range s.Fields {
			if f.Name == "" {
				return fmt.Errorf("definition %s step %d: field without name", d.ID, i)
			}
			if prev, ok := seen[f.Name]; ok {
				return fmt.Errorf("definition %s: field %q declared in steps %d and %d", d.ID, f.Name, prev, i)
			}
			seen[f.Name] = i
			if f.Kind == KindSelect && len(f.Options) == 0 {
				return fmt.Errorf("definition %s: select field %q has no options", d.ID, f.Name)
			}
			if f.Kind == KindFile && f.Rule.File == nil {
				return fmt.Errorf("definition %s: file field %q has no file rule", d.ID, f.Name)
			}
		}
	}
	return nil
}
