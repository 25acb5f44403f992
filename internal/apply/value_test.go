package apply

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_IsEmpty(t *testing.T) {
	assert.True(t, Value{}.IsEmpty())
	assert.True(t, Text(" \t").IsEmpty())
	assert.False(t, Text("a").IsEmpty())
	assert.False(t, Number(0).IsEmpty())
	assert.True(t, Bool(false).IsEmpty())
	assert.False(t, Bool(true).IsEmpty())
	assert.True(t, File(FileRef{}).IsEmpty())
	assert.False(t, File(FileRef{Name: "cv.pdf"}).IsEmpty())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Value{}.String())
	assert.Equal(t, "hi", Text("hi").String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "yes", Bool(true).String())
	assert.Equal(t, "cv.pdf", File(FileRef{Name: "cv.pdf"}).String())
}

func TestFormState_JSON(t *testing.T) {
	form := FormState{
		"fullName":   Text("Alice"),
		"experience": Number(3),
		"remote":     Bool(true),
		"cv":         File(FileRef{Name: "cv.pdf", Size: 1024, MIMEType: "application/pdf"}),
	}

	data, err := json.Marshal(form)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fullName": "Alice",
		"experience": 3,
		"remote": true,
		"cv": {"name": "cv.pdf", "size": 1024, "mime_type": "application/pdf"}
	}`, string(data))

	var decoded FormState
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, form, decoded)
}

func TestValueOf_Unsupported(t *testing.T) {
	_, err := ValueOf([]any{"a"})
	require.Error(t, err)
}

func TestFormState_CloneIsIndependent(t *testing.T) {
	form := FormState{"a": Text("1")}
	clone := form.Clone()
	clone["a"] = Text("2")
	assert.Equal(t, Text("1"), form["a"])
}
