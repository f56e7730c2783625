package entry

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

var (
	entryFields           = []string{"Key", "Value"}
	valueFields           = []string{"LocalProperties", "Remote", "IsFavorite", "LastAccessed", "IsLocal", "HasRemote", "IsSourceControlled"}
	localPropertiesFields = []string{"FullPath", "Type", "SourceControl"}
)

// UnmarshalJSON decodes e and keeps members it does not know in Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownMembers(data, entryFields)
	if err != nil {
		return err
	}
	p.Extra = extra
	*e = Entry(p)
	return nil
}

// MarshalJSON encodes e followed by its Extra members.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return marshalWithExtra(plain(e), e.Extra)
}

// UnmarshalJSON decodes v and keeps members it does not know in Extra.
func (v *Value) UnmarshalJSON(data []byte) error {
	type plain Value
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownMembers(data, valueFields)
	if err != nil {
		return err
	}
	p.Extra = extra
	*v = Value(p)
	return nil
}

// MarshalJSON encodes v followed by its Extra members.
func (v Value) MarshalJSON() ([]byte, error) {
	type plain Value
	return marshalWithExtra(plain(v), v.Extra)
}

// UnmarshalJSON decodes lp and keeps members it does not know in Extra.
func (lp *LocalProperties) UnmarshalJSON(data []byte) error {
	type plain LocalProperties
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownMembers(data, localPropertiesFields)
	if err != nil {
		return err
	}
	p.Extra = extra
	*lp = LocalProperties(p)
	return nil
}

// MarshalJSON encodes lp followed by its Extra members.
func (lp LocalProperties) MarshalJSON() ([]byte, error) {
	type plain LocalProperties
	return marshalWithExtra(plain(lp), lp.Extra)
}

// unknownMembers returns the members of the JSON object data whose names
// match none of known. Names match case-insensitively, as encoding/json
// does when it fills struct fields.
func unknownMembers(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for name, raw := range all {
		if slices.ContainsFunc(known, func(k string) bool { return strings.EqualFold(k, name) }) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[name] = raw
	}
	return extra, nil
}

// marshalWithExtra encodes v, which must encode as an object, and appends
// the extra members sorted by name. HTML characters are not escaped.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	out, err := marshalNoEscape(v)
	if err != nil || len(extra) == 0 {
		return out, err
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	slices.Sort(names)

	buf := bytes.NewBuffer(out[:len(out)-1])
	for i, name := range names {
		if i > 0 || len(out) > 2 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
