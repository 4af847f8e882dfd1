package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Deal is a CRM sales-pipeline record. The remote API serves every field as a
// loosely typed JSON value, so well-known fields are lifted into named members
// while the raw map is retained for the per-deployment custom fields.
type Deal struct {
	ID           string
	Title        string
	StageID      string
	AssignedByID string
	SourceID     string
	Opportunity  string
	DateCreate   string
	CloseDate    string

	custom map[string]any
}

func (d *Deal) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ID = asString(raw["ID"])
	d.Title = asString(raw["TITLE"])
	d.StageID = asString(raw["STAGE_ID"])
	d.AssignedByID = asString(raw["ASSIGNED_BY_ID"])
	d.SourceID = asString(raw["SOURCE_ID"])
	d.Opportunity = asString(raw["OPPORTUNITY"])
	d.DateCreate = asString(raw["DATE_CREATE"])
	d.CloseDate = asString(raw["CLOSEDATE"])
	d.custom = raw
	return nil
}

// Custom returns the raw value of a dynamically keyed field, or nil when the
// field is absent.
func (d *Deal) Custom(key string) any {
	if d.custom == nil {
		return nil
	}
	return d.custom[key]
}

// CustomString returns a custom field coerced to a string, "" when absent.
func (d *Deal) CustomString(key string) string {
	return asString(d.Custom(key))
}

// SetCustom is used by tests and decoders to attach custom field values.
func (d *Deal) SetCustom(key string, value any) {
	if d.custom == nil {
		d.custom = make(map[string]any)
	}
	d.custom[key] = value
}

// Lead is a CRM record for a prospective client prior to becoming a deal.
type Lead struct {
	ID               string
	Title            string
	StatusID         string
	StatusSemanticID string
	SourceID         string
	AssignedByID     string
	Opportunity      string
	DateCreate       string
	DateModify       string

	custom map[string]any
}

func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID = asString(raw["ID"])
	l.Title = asString(raw["TITLE"])
	l.StatusID = asString(raw["STATUS_ID"])
	l.StatusSemanticID = asString(raw["STATUS_SEMANTIC_ID"])
	l.SourceID = asString(raw["SOURCE_ID"])
	l.AssignedByID = asString(raw["ASSIGNED_BY_ID"])
	l.Opportunity = asString(raw["OPPORTUNITY"])
	l.DateCreate = asString(raw["DATE_CREATE"])
	l.DateModify = asString(raw["DATE_MODIFY"])
	l.custom = raw
	return nil
}

func (l *Lead) Custom(key string) any {
	if l.custom == nil {
		return nil
	}
	return l.custom[key]
}

func (l *Lead) CustomString(key string) string {
	return asString(l.Custom(key))
}

func (l *Lead) SetCustom(key string, value any) {
	if l.custom == nil {
		l.custom = make(map[string]any)
	}
	l.custom[key] = value
}

// User is a CRM portal user. Departments is a many-to-many membership list: a
// user may belong to zero, one, or many departments.
type User struct {
	ID            string
	Name          string
	LastName      string
	WorkPosition  string
	PersonalPhoto string
	Departments   []string
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = asString(raw["ID"])
	u.Name = asString(raw["NAME"])
	u.LastName = asString(raw["LAST_NAME"])
	u.WorkPosition = asString(raw["WORK_POSITION"])
	u.PersonalPhoto = asString(raw["PERSONAL_PHOTO"])
	u.Departments = nil
	if list, ok := raw["UF_DEPARTMENT"].([]any); ok {
		for _, item := range list {
			if id := asString(item); id != "" {
				u.Departments = append(u.Departments, id)
			}
		}
	}
	return nil
}

// FullName joins first and last name, trimming when either is missing.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// Department is an org unit, used both as a team and as a filter dimension.
type Department struct {
	ID   string `json:"ID"`
	Name string `json:"NAME"`
}

func (d *Department) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ID = asString(raw["ID"])
	d.Name = asString(raw["NAME"])
	return nil
}

// StatusEntry is one row of the CRM status directory. The same endpoint
// serves lead sources, lead statuses and deal stage labels, distinguished by
// EntityID.
type StatusEntry struct {
	ID       string
	EntityID string
	StatusID string
	Name     string
}

func (s *StatusEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = asString(raw["ID"])
	s.EntityID = asString(raw["ENTITY_ID"])
	s.StatusID = asString(raw["STATUS_ID"])
	s.Name = asString(raw["NAME"])
	return nil
}

// EnumItem is one choice of a constrained-choice CRM field.
type EnumItem struct {
	ID    string
	Value string
}

func (e *EnumItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.ID = asString(raw["ID"])
	e.Value = asString(raw["VALUE"])
	return nil
}

// FieldMeta describes one CRM field. Only enumeration items are of interest
// here; everything else in the definition is ignored.
type FieldMeta struct {
	Type  string     `json:"type"`
	Items []EnumItem `json:"items"`
}

// asString coerces the loosely typed values the CRM serves (strings, numbers,
// null) into a string. Unsupported shapes collapse to "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
