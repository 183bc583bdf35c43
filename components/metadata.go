package components

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pthm-cable/biome/traits"
)

// Widget selects how the inspector renders a field.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

// Field is one exported struct field with its rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar"`
//	`inspect:"bar,max:200"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a struct, honoring inspect tags.
func ExtractFields(v any) []Field {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	var fields []Field
	for i := 0; i < rv.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := rv.Field(i)
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}
		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue renders a field value, using fmtStr when given.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// OptionFloat returns a numeric tag option, or def when absent or malformed.
func OptionFloat(options map[string]string, key string, def float64) float64 {
	if s, ok := options[key]; ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

// FloatValue extracts a float from numeric field values.
func FloatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// FieldDescriptor describes a trait for UI display.
type FieldDescriptor struct {
	Trait traits.Trait
	Label string
	Min   float64 // Lowest level
	Max   float64 // Highest level
	// CarnivoreOnly fields are hidden for herbivores.
	CarnivoreOnly bool
}

// TraitFieldDescriptors returns display metadata for every trait.
func TraitFieldDescriptors() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, traits.NumTraits)
	for t := traits.Trait(0); t < traits.NumTraits; t++ {
		levels := traits.Levels(t)
		out = append(out, FieldDescriptor{
			Trait:         t,
			Label:         traits.TraitName(t),
			Min:           levels[0],
			Max:           levels[len(levels)-1],
			CarnivoreOnly: t == traits.Strength,
		})
	}
	return out
}

// VisibleFor reports whether the descriptor applies to a species.
func (d FieldDescriptor) VisibleFor(s Species) bool {
	return !d.CarnivoreOnly || s.IsCarnivore()
}

// Fraction maps a trait value onto [0, 1] between the lowest and highest level.
func (d FieldDescriptor) Fraction(v float64) float64 {
	if d.Max == d.Min {
		return 0
	}
	f := (v - d.Min) / (d.Max - d.Min)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
