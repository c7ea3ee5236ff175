// Package callback encodes and decodes inline-button payloads.
package callback

import "strings"

// Kind is the decoded action of a button press.
type Kind int

const (
	Unknown Kind = iota
	Category
	View
	Delete
	ConfirmYes
	ConfirmNo
)

func (k Kind) String() string {
	switch k {
	case Category:
		return "category"
	case View:
		return "view"
	case Delete:
		return "delete"
	case ConfirmYes:
		return "confirm_yes"
	case ConfirmNo:
		return "confirm_no"
	default:
		return "unknown"
	}
}

const (
	prefixCategory = "category_"
	prefixView     = "view_"
	prefixDelete   = "delete_"

	dataConfirmYes = "confirm_yes"
	dataConfirmNo  = "confirm_no"
)

// Data is a decoded button payload. Arg is the category token or recipe id
// and is empty for the confirm kinds.
type Data struct {
	Kind Kind
	Arg  string
}

// Parse decodes raw once. Payloads with a known prefix but no argument are
// Unknown.
func Parse(raw string) Data {
	switch {
	case raw == dataConfirmYes:
		return Data{Kind: ConfirmYes}
	case raw == dataConfirmNo:
		return Data{Kind: ConfirmNo}
	case strings.HasPrefix(raw, prefixCategory) && len(raw) > len(prefixCategory):
		return Data{Kind: Category, Arg: raw[len(prefixCategory):]}
	case strings.HasPrefix(raw, prefixView) && len(raw) > len(prefixView):
		return Data{Kind: View, Arg: raw[len(prefixView):]}
	case strings.HasPrefix(raw, prefixDelete) && len(raw) > len(prefixDelete):
		return Data{Kind: Delete, Arg: raw[len(prefixDelete):]}
	default:
		return Data{Kind: Unknown, Arg: raw}
	}
}

// Encode is the inverse of Parse.
func (d Data) Encode() string {
	switch d.Kind {
	case Category:
		return prefixCategory + d.Arg
	case View:
		return prefixView + d.Arg
	case Delete:
		return prefixDelete + d.Arg
	case ConfirmYes:
		return dataConfirmYes
	case ConfirmNo:
		return dataConfirmNo
	default:
		return d.Arg
	}
}

func CategoryData(token string) string { return Data{Kind: Category, Arg: token}.Encode() }
func ViewData(id string) string        { return Data{Kind: View, Arg: id}.Encode() }
func DeleteData(id string) string      { return Data{Kind: Delete, Arg: id}.Encode() }
func YesData() string                  { return dataConfirmYes }
func NoData() string                   { return dataConfirmNo }
