package ui

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm/hxdash/lib/form"
)

// ParseField converts the posted values of one field into its form value.
// ok is false when the request carried nothing for the field.
func ParseField(f Field, posted url.Values) (value any, ok bool) {
	name := Name(f)
	switch field := f.(type) {
	case *Checkbox:
		raw, present := posted[name]
		if !present {
			return false, false
		}
		return raw[len(raw)-1] == "true", true
	case *StringList:
		if !posted.Has(name) {
			return nil, false
		}
		return splitLines(posted.Get(name)), true
	case *ObjectList:
		if !posted.Has(name) {
			return nil, false
		}
		return parseObjectList(name, field.Keys, posted), true
	case *Custom:
		raw, present := posted[name]
		if !present {
			return nil, false
		}
		if field.Parse != nil {
			return field.Parse(raw), true
		}
		return raw[len(raw)-1], true
	default:
		if !posted.Has(name) {
			return nil, false
		}
		return posted.Get(name), true
	}
}

// ParseForm collects every field of sections present in posted.
func ParseForm(sections []Section, posted url.Values) form.Values {
	out := form.Values{}
	for _, f := range Fields(sections) {
		if v, ok := ParseField(f, posted); ok {
			out[Name(f)] = v
		}
	}
	return out
}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseObjectList reads inputs named "<name>.<index>.<key>". Rows whose
// values are all blank are dropped.
func parseObjectList(name string, keys []ObjectKey, posted url.Values) []map[string]any {
	rows := map[int]map[string]any{}
	prefix := name + "."
	for k, vs := range posted {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || len(vs) == 0 {
			continue
		}
		idxStr, key, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			continue
		}
		if rows[idx] == nil {
			rows[idx] = map[string]any{}
		}
		rows[idx][key] = strings.TrimSpace(vs[len(vs)-1])
	}

	indexes := make([]int, 0, len(rows))
	for i := range rows {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := []map[string]any{}
	for _, i := range indexes {
		row := rows[i]
		blank := true
		for _, v := range row {
			if v != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		for _, k := range keys {
			if _, ok := row[k.Key]; !ok {
				row[k.Key] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

// ChangedField maps the name of the control that posted an edit back to
// its field. Object list inputs are named "<field>.<index>.<key>".
func ChangedField(sections []Section, inputName string) (Field, bool) {
	if f, ok := Lookup(sections, inputName); ok {
		return f, true
	}
	if name, _, ok := strings.Cut(inputName, "."); ok {
		return Lookup(sections, name)
	}
	return nil, false
}
