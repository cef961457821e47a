package domain

import (
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input is the raw textual form of a project write, as decoded from a
// multipart/urlencoded form or a legacy JSON body. Keys are the JSON field names.
type Input map[string][]string

// InputFromJSON flattens a decoded JSON object into an Input.
// Arrays become repeated values, booleans and numbers their text form, nulls are dropped.
func InputFromJSON(body map[string]any) Input {
	in := make(Input, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case nil:
			continue
		case string:
			in[key] = []string{v}
		case bool:
			in[key] = []string{strconv.FormatBool(v)}
		case float64:
			in[key] = []string{strconv.FormatFloat(v, 'f', -1, 64)}
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				if item == nil {
					continue
				}
				values = append(values, fmt.Sprint(item))
			}
			in[key] = values
		default:
			in[key] = []string{fmt.Sprint(v)}
		}
	}
	return in
}

func (in Input) lookup(key string) (string, bool) {
	values, ok := in[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

var errInvalidCategory = validation.NewError("validation_category_invalid", "must be one of frontend, backend, design, mobile, fullstack")

// categoryRule accepts a Category or *Category. Empty and nil values pass so it composes with Required.
var categoryRule = validation.By(func(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	if c, ok := value.(Category); ok && c.Valid() {
		return nil
	}
	return errInvalidCategory
})

// ParseCreate turns client input into a new Project ready to be stored.
// Store-assigned fields (ID, CreatedAt, UpdatedAt) are left zero.
func ParseCreate(in Input) (Project, error) {
	title, _ := in.lookup("title")
	description, _ := in.lookup("description")

	p := Project{
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		Image:        DefaultImageURL,
		Category:     CategoryFrontend,
		Technologies: []string{},
	}

	if p.Title == "" || p.Description == "" {
		field := "title"
		if p.Title != "" {
			field = "description"
		}
		return Project{}, NewValidationError(field, "title and description are required")
	}

	if raw, ok := in.lookup("category"); ok && strings.TrimSpace(raw) != "" {
		p.Category = Category(strings.ToLower(strings.TrimSpace(raw)))
	}
	if tags, ok := parseTechnologies(in); ok {
		p.Technologies = tags
	}
	if raw, ok := in.lookup("githubUrl"); ok {
		p.GithubURL = strings.TrimSpace(raw)
	}
	if raw, ok := in.lookup("liveUrl"); ok {
		p.LiveURL = strings.TrimSpace(raw)
	}
	if raw, ok := in.lookup("image"); ok && strings.TrimSpace(raw) != "" {
		p.Image = strings.TrimSpace(raw)
	}

	featured, err := parseFeatured(in)
	if err != nil {
		return Project{}, err
	}
	if featured != nil {
		p.Featured = *featured
	}

	err = validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Category, validation.Required, categoryRule),
	)
	if err != nil {
		return Project{}, toValidationError(err)
	}
	return p, nil
}

// ParsePatch turns client input into a partial update. Only keys present in
// the input are set on the patch. An empty category or featured value counts
// as absent; an empty title or description is rejected.
func ParsePatch(in Input) (Patch, error) {
	var pt Patch

	if raw, ok := in.lookup("title"); ok {
		v := strings.TrimSpace(raw)
		pt.Title = &v
	}
	if raw, ok := in.lookup("description"); ok {
		v := strings.TrimSpace(raw)
		pt.Description = &v
	}
	if raw, ok := in.lookup("category"); ok && strings.TrimSpace(raw) != "" {
		c := Category(strings.ToLower(strings.TrimSpace(raw)))
		pt.Category = &c
	}
	if tags, ok := parseTechnologies(in); ok {
		pt.Technologies = &tags
	}
	if raw, ok := in.lookup("githubUrl"); ok {
		v := strings.TrimSpace(raw)
		pt.GithubURL = &v
	}
	if raw, ok := in.lookup("liveUrl"); ok {
		v := strings.TrimSpace(raw)
		pt.LiveURL = &v
	}
	if raw, ok := in.lookup("image"); ok && strings.TrimSpace(raw) != "" {
		v := strings.TrimSpace(raw)
		pt.Image = &v
	}

	featured, err := parseFeatured(in)
	if err != nil {
		return Patch{}, err
	}
	pt.Featured = featured

	err = validation.Errors{
		"title":       validation.Validate(pt.Title, validation.NilOrNotEmpty.Error("cannot be blank")),
		"description": validation.Validate(pt.Description, validation.NilOrNotEmpty.Error("cannot be blank")),
		"category":    validation.Validate(pt.Category, categoryRule),
	}.Filter()
	if err != nil {
		return Patch{}, toValidationError(err)
	}
	return pt, nil
}

// parseTechnologies accepts either repeated values or a single comma-separated value.
func parseTechnologies(in Input) ([]string, bool) {
	values, ok := in["technologies"]
	if !ok {
		return nil, false
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags, true
}

func parseFeatured(in Input) (*bool, error) {
	raw, ok := in.lookup("featured")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return nil, NewValidationError("featured", fmt.Sprintf("featured: %q is not a boolean", raw))
	}
	return &v, nil
}

func toValidationError(err error) error {
	errs, ok := err.(validation.Errors)
	if !ok {
		return NewValidationError("", err.Error())
	}
	field := ""
	for name := range errs {
		if field == "" || name < field {
			field = name
		}
	}
	return NewValidationError(field, errs.Error())
}
