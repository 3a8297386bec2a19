package integration

import (
	"encoding/json"
	"testing"
)

func TestNewItemDefaultsSerialize(t *testing.T) {
	item := NewItem("1", "Contact", "a@b.com")

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["directory"] != false || got["visibility"] != true {
		t.Fatalf("unexpected flags: directory=%v visibility=%v", got["directory"], got["visibility"])
	}
	for _, k := range []string{"parent_id", "parent_path_or_name", "url", "children", "mime_type", "delta", "drive_id", "creation_time", "last_modified_time"} {
		v, ok := got[k]
		if !ok {
			t.Errorf("field %q missing from JSON", k)
			continue
		}
		if v != nil {
			t.Errorf("field %q = %v, want null", k, v)
		}
	}
	if got["name"] != "a@b.com" || got["type"] != "Contact" || got["id"] != "1" {
		t.Fatalf("unexpected identity fields: %v", got)
	}
}

func TestOptStr(t *testing.T) {
	if OptStr("") != nil {
		t.Fatal("empty string should be nil")
	}
	if p := OptStr("x"); p == nil || *p != "x" {
		t.Fatalf("OptStr(x) = %v", p)
	}
}
