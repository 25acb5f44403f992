package form

// deliveredMsg reports the outcome of handing a submission to the outbox.
type deliveredMsg struct {
	err error
}

// editedMsg carries text written in $EDITOR back to a field.
type editedMsg struct {
	field   string
	content string
}
