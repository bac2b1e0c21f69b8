package schema

import "github.com/sadopc/datamgr/internal/model"

// The helpers below assume the value already passed validation.

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func list(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

func toEntry(m map[string]any) model.Entry {
	e := model.Entry{
		ID:          str(m, "id"),
		Country:     str(m, "country"),
		MachineID:   str(m, "machineId"),
		Description: str(m, "description"),
		Category:    str(m, "category"),
		Priority:    model.Priority(str(m, "priority")),
		Status:      model.Status(str(m, "status")),
		Tags:        []string{},
		Email:       model.EmailFlag(str(m, "email")),
		Auth:        model.AuthMode(str(m, "auth")),
		URL:         str(m, "url"),
		Notes:       str(m, "notes"),
		Password:    str(m, "password"),
		Owner:       str(m, "owner"),
		Orders:      str(m, "orders"),
		CreatedAt:   str(m, "createdAt"),
		UpdatedAt:   str(m, "updatedAt"),
	}
	for _, t := range list(m, "tags") {
		e.Tags = append(e.Tags, t.(string))
	}
	for _, s := range list(m, "stores") {
		sm := s.(map[string]any)
		e.Stores = append(e.Stores, model.StoreRecord{
			ID:          str(sm, "id"),
			Name:        str(sm, "name"),
			Description: str(sm, "description"),
		})
	}
	return e
}

func toTag(m map[string]any) model.Tag {
	return model.Tag{
		ID:    str(m, "id"),
		Name:  str(m, "name"),
		Color: model.TagColor(str(m, "color")),
	}
}
