package util

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

type patchBody struct {
	DueDate Nullable[int64]  `json:"dueDate"`
	Note    Nullable[string] `json:"note"`
}

func TestNullableDistinguishesAbsentAndNull(t *testing.T) {
	is := is.New(t)

	var absent patchBody
	is.NoErr(json.Unmarshal([]byte(`{}`), &absent))
	is.True(!absent.DueDate.Set)

	var cleared patchBody
	is.NoErr(json.Unmarshal([]byte(`{"dueDate":null}`), &cleared))
	is.True(cleared.DueDate.Set)
	is.True(cleared.DueDate.Value == nil)

	var set patchBody
	is.NoErr(json.Unmarshal([]byte(`{"dueDate":1700000000000,"note":"ok"}`), &set))
	is.True(set.DueDate.Set)
	is.Equal(*set.DueDate.Value, int64(1700000000000))
	is.Equal(*set.Note.Value, "ok")
}

func TestNullableRejectsWrongType(t *testing.T) {
	is := is.New(t)
	var body patchBody
	is.True(json.Unmarshal([]byte(`{"dueDate":"tomorrow"}`), &body) != nil)
}
