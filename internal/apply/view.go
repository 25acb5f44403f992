package apply

// FieldView is a field together with its current value and error.
type FieldView struct {
	Field
	Value   Value
	Present bool
	Error   string
}

// StepView is everything a presentation layer needs to paint the current
// step.
type StepView struct {
	Form      string
	Index     int
	Total     int
	Title     string
	Body      string
	Fields    []FieldView
	Progress  int
	First     bool
	Last      bool
	Submitted bool
	// Errors holds failures on fields outside the current step, reported
	// when a final submission is rejected.
	Errors []FieldError
}

// View builds the render model for the current step.
func (c *Controller) View() StepView {
	step := c.Step()
	v := StepView{
		Form:      c.def.ID,
		Index:     c.index,
		Total:     c.def.Total(),
		Title:     step.Title,
		Body:      step.Body,
		Progress:  c.Progress(),
		First:     c.index == 0,
		Last:      c.IsLast(),
		Submitted: c.submitted,
	}

	onStep := make(map[string]bool, len(step.Fields))
	for _, f := range step.Fields {
		onStep[f.Name] = true
		val, ok := c.form[f.Name]
		v.Fields = append(v.Fields, FieldView{
			Field:   f,
			Value:   val,
			Present: ok,
			Error:   c.errors[f.Name],
		})
	}
	for _, fe := range c.errors.Errors() {
		if !onStep[fe.Field] {
			v.Errors = append(v.Errors, fe)
		}
	}
	return v
}

// SummaryItem is one entered value, labelled for display on a review
// screen.
type SummaryItem struct {
	Step  string
	Name  string
	Label string
	Value string
}

// Summary lists every entered value in declaration order.
func (c *Controller) Summary() []SummaryItem {
	var out []SummaryItem
	for _, s := range c.def.Steps {
		for _, f := range s.Fields {
			val, ok := c.form[f.Name]
			if !ok || val.IsEmpty() {
				continue
			}
			display := val.String()
			if f.Kind == KindSelect {
				display = f.OptionLabel(display)
			}
			out = append(out, SummaryItem{
				Step:  s.Title,
				Name:  f.Name,
				Label: fieldLabel(f),
				Value: display,
			})
		}
	}
	return out
}
