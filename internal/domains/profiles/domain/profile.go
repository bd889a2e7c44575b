package domain

import (
	"strings"
)

// DefaultProfileType is the metaobject type tag identifying pooch profile records.
const DefaultProfileType = "pooch_profile"

// Field keys of a pooch profile record, in the order they are submitted.
const (
	FieldImage      = "image"
	FieldName       = "name"
	FieldBreed      = "breed"
	FieldBirthday   = "birthday"
	FieldWeight     = "weight"
	FieldNotes      = "notes"
	FieldCustomerID = "customer_id"
)

// Field is one key/value pair of a metaobject record.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Profile is the record created on the platform. The platform is the system of record;
// nothing here is retained after the request completes.
type Profile struct {
	ID     string
	Type   string
	Fields []Field
}

// FieldValue returns the value stored under key and whether it was present.
func (p *Profile) FieldValue(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, f := range p.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Draft is a validated profile submission before it is sent to the platform.
type Draft struct {
	Name       string
	CustomerID string
	Breed      string
	Birthday   string
	Weight     string
	Notes      string
}

// NewDraft trims the inputs and enforces the required fields. A customer id given as a
// global id must name a Customer.
func NewDraft(name, customerID, breed, birthday, weight, notes string) (*Draft, error) {
	d := &Draft{
		Name:       strings.TrimSpace(name),
		CustomerID: strings.TrimSpace(customerID),
		Breed:      strings.TrimSpace(breed),
		Birthday:   strings.TrimSpace(birthday),
		Weight:     strings.TrimSpace(weight),
		Notes:      notes,
	}
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name is required")
	}
	if d.CustomerID == "" {
		missing = append(missing, "customerId is required")
	} else if IsGID(d.CustomerID) {
		if gid, err := ParseGID(d.CustomerID); err != nil || gid.Resource != "Customer" {
			missing = append(missing, "customerId must be a Customer id")
		}
	}
	if len(missing) > 0 {
		return nil, NewValidationError(missing...)
	}
	return d, nil
}

// Fields builds the record field list. Optional keys are always present, defaulting to "".
// A non-empty imageRef is prepended under the image key.
func (d *Draft) Fields(gidNamespace, imageRef string) []Field {
	fields := make([]Field, 0, 7)
	if imageRef = strings.TrimSpace(imageRef); imageRef != "" {
		fields = append(fields, Field{Key: FieldImage, Value: imageRef})
	}
	return append(fields,
		Field{Key: FieldName, Value: d.Name},
		Field{Key: FieldBreed, Value: d.Breed},
		Field{Key: FieldBirthday, Value: d.Birthday},
		Field{Key: FieldWeight, Value: d.Weight},
		Field{Key: FieldNotes, Value: d.Notes},
		Field{Key: FieldCustomerID, Value: FormatGID(gidNamespace, "Customer", d.CustomerID)},
	)
}
