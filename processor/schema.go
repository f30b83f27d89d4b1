package processor

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	versesField     = "verses"
	jsonOutputField = "jsonOutput"
)

// fieldRule validates one top level field of the model response.
// A missing field is passed with Exists() == false.
type fieldRule struct {
	name  string
	check func(value gjson.Result) error
}

// responseSchema is the shape the editorial prompt asks the model for:
// verses is absent, null or an array of strings, jsonOutput is any JSON value.
var responseSchema = []fieldRule{
	{name: versesField, check: stringArrayOrNull},
	{name: jsonOutputField, check: anyValue},
}

func stringArrayOrNull(value gjson.Result) error {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	if !value.IsArray() {
		return fmt.Errorf("%w: %s must be an array, got %s", ErrSchema, versesField, kindOf(value))
	}

	var err error
	value.ForEach(func(key, element gjson.Result) bool {
		if element.Type != gjson.String {
			err = fmt.Errorf("%w: %s[%d] must be a string, got %s", ErrSchema, versesField, key.Int(), kindOf(element))
			return false
		}
		return true
	})
	return err
}

// kindOf names the JSON kind of value. gjson reports arrays and objects both as JSON.
func kindOf(value gjson.Result) string {
	switch {
	case value.IsArray():
		return "an array"
	case value.IsObject():
		return "an object"
	case value.Type == gjson.String:
		return "a string"
	case value.Type == gjson.Number:
		return "a number"
	case value.Type == gjson.True, value.Type == gjson.False:
		return "a boolean"
	}
	return "null"
}

func anyValue(gjson.Result) error {
	return nil
}

// validate checks raw against responseSchema and returns the parsed document
func validate(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, ErrInvalidJSON
	}

	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: top level value is %s", ErrInvalidJSON, kindOf(doc))
	}

	for _, rule := range responseSchema {
		if err := rule.check(doc.Get(rule.name)); err != nil {
			return gjson.Result{}, err
		}
	}
	return doc, nil
}

// cleanJSONResponse strips the markdown code fence some models put around JSON even in JSON mode
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
