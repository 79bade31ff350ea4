package loader

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Raw content records, shaped like the JSON document. Scalars decode
// tolerantly: a wrong type degrades to the zero value instead of failing the
// whole document, and a collection that is not a list reads as empty. Only
// the room list itself is strict.

type rawDoc struct {
	Rooms []rawRoom `json:"rooms"`
}

type rawRoom struct {
	ID       text            `json:"id"`
	Name     text            `json:"name"`
	Subtitle text            `json:"subtitle"`
	Desc     text            `json:"desc"`
	Cast     text            `json:"cast"`
	Mood     text            `json:"mood"`
	Goal     text            `json:"goal"`
	Items    list[rawItem]   `json:"items"`
	Objects  list[rawObject] `json:"objects"`
}

type rawItem struct {
	ID    text   `json:"id"`
	Name  text   `json:"name"`
	Icon  text   `json:"icon"`
	Value number `json:"value"`
}

type rawObject struct {
	ID           text                 `json:"id"`
	Name         text                 `json:"name"`
	Icon         text                 `json:"icon"`
	Hint         text                 `json:"hint"`
	Interactions list[rawInteraction] `json:"interactions"`

	// First-version shape.
	Actions      list[rawAction] `json:"actions"`
	RequiresItem text            `json:"requiresItem"`
	LockedText   text            `json:"lockedText"`
}

type rawInteraction struct {
	When    rawWhen         `json:"when"`
	ItemID  text            `json:"itemId"`
	Actions list[rawAction] `json:"actions"`
}

type rawAction struct {
	Type    text       `json:"type"`
	OnceKey text       `json:"onceKey"`
	Text    text       `json:"text"`
	ItemID  text       `json:"itemId"`
	Title   text       `json:"title"`
	HTML    text       `json:"html"`
	Puzzle  *rawPuzzle `json:"puzzle"`
}

type rawPuzzle struct {
	Type         text       `json:"type"`
	Prompt       text       `json:"prompt"`
	Answer       text       `json:"answer"`
	SumItemIDs   list[text] `json:"sumItemIds"`
	SuccessTitle text       `json:"successTitle"`
	SuccessText  text       `json:"successText"`
	OnSuccess    typeOnly   `json:"onSuccess"`
}

// list decodes a JSON array element by element. A non-array reads as nil and
// elements that do not decode are skipped.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil || elems == nil {
		*l = nil
		return nil
	}
	out := make(list[T], 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// text accepts a string, number or bool. Anything else is "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = text(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*t = text(strconv.FormatBool(v))
		return nil
	}
	*t = ""
	return nil
}

// number is an optional numeric value. Non-numbers leave it unset.
type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*n = number{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number{v: f, ok: true}
		return nil
	}
	*n = number{}
	return nil
}

func (n number) ptr() *float64 {
	if !n.ok {
		return nil
	}
	v := n.v
	return &v
}

// rawWhen is either a bare tag ("inspect") or {"type": "useItem", "itemId": …}.
type rawWhen struct {
	Type   string
	ItemID string
}

func (w *rawWhen) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*w = rawWhen{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*w = rawWhen{Type: s}
		return nil
	}
	var obj struct {
		Type   text `json:"type"`
		ItemID text `json:"itemId"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*w = rawWhen{Type: string(obj.Type), ItemID: string(obj.ItemID)}
		return nil
	}
	*w = rawWhen{}
	return nil
}

// typeOnly is either a bare tag ("completeRoom") or {"type": "completeRoom"}.
type typeOnly string

func (t *typeOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = typeOnly(s)
		return nil
	}
	var obj struct {
		Type text `json:"type"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*t = typeOnly(obj.Type)
		return nil
	}
	*t = ""
	return nil
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// decodeDocument parses a content document.
func decodeDocument(data []byte) (*rawDoc, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
