package notion

// Property is the subset of Notion's property value union we read and write.
// Only the field matching the property's type is set.
type Property struct {
	Title       []RichText `json:"title,omitempty"`
	RichText    []RichText `json:"rich_text,omitempty"`
	Email       *string    `json:"email,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	MultiSelect []Option   `json:"multi_select,omitempty"`
	Select      *Option    `json:"select,omitempty"`
	Date        *Date      `json:"date,omitempty"`
}

// RichText is a text fragment.
type RichText struct {
	Text      Text   `json:"text"`
	PlainText string `json:"plain_text,omitempty"`
}

// Text holds the fragment content.
type Text struct {
	Content string `json:"content"`
}

// Option is a select / multi_select choice.
type Option struct {
	Name string `json:"name"`
}

// Date is a date property value.
type Date struct {
	Start string `json:"start"`
}

// TitleProperty builds a title value.
func TitleProperty(s string) Property {
	return Property{Title: []RichText{{Text: Text{Content: s}}}}
}

// RichTextProperty builds a rich_text value.
func RichTextProperty(s string) Property {
	return Property{RichText: []RichText{{Text: Text{Content: s}}}}
}

// EmailProperty builds an email value.
func EmailProperty(s string) Property {
	return Property{Email: &s}
}

// PhoneProperty builds a phone_number value.
func PhoneProperty(s string) Property {
	return Property{PhoneNumber: &s}
}

// MultiSelectProperty builds a multi_select value.
func MultiSelectProperty(names []string) Property {
	opts := make([]Option, len(names))
	for i, n := range names {
		opts[i] = Option{Name: n}
	}
	return Property{MultiSelect: opts}
}

// SelectProperty builds a select value.
func SelectProperty(name string) Property {
	return Property{Select: &Option{Name: name}}
}

// DateProperty builds a date value.
func DateProperty(start string) Property {
	return Property{Date: &Date{Start: start}}
}

// TitleText returns the first fragment of a title property.
func (p Property) TitleText() string {
	return firstText(p.Title)
}

// PlainRichText returns the first fragment of a rich_text property.
func (p Property) PlainRichText() string {
	return firstText(p.RichText)
}

// EmailValue returns the email, or "" when unset.
func (p Property) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// PhoneValue returns the phone number, or "" when unset.
func (p Property) PhoneValue() string {
	if p.PhoneNumber == nil {
		return ""
	}
	return *p.PhoneNumber
}

func firstText(rt []RichText) string {
	if len(rt) == 0 {
		return ""
	}
	if rt[0].Text.Content != "" {
		return rt[0].Text.Content
	}
	return rt[0].PlainText
}
