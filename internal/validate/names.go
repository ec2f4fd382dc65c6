package validate

import (
	"reflect"
	"strings"
)

// yamlFieldName returns the yaml key of a struct field, falling back to the Go name.
func yamlFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}
