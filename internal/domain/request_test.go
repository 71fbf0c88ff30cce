package domain

import "testing"

func TestRequestSpecClone_IsDeep(t *testing.T) {
	status := 201
	orig := RequestSpec{
		Name:    "post",
		Method:  MethodPost,
		URL:     "https://example.org/post",
		Headers: Headers{"Accept": "application/json"},
		Body: BodySpec{
			Type: BodyJSON,
			JSON: map[string]any{
				"username": "example",
				"tags":     []any{"a", map[string]any{"k": "v"}},
			},
		},
		Assert:  AssertionsSpec{Status: &status, JSONPath: map[string]JSONPathAssertion{"$.id": {Exists: true}}},
		Extract: ExtractSpec{"id": "$.id"},
	}

	c := orig.Clone()
	c.Headers["Accept"] = "text/plain"
	c.Body.JSON["username"] = "other"
	c.Body.JSON["tags"].([]any)[1].(map[string]any)["k"] = "changed"
	*c.Assert.Status = 500
	c.Assert.JSONPath["$.x"] = JSONPathAssertion{}
	c.Extract["other"] = "$.x"

	if orig.Headers["Accept"] != "application/json" {
		t.Fatalf("headers shared with clone")
	}
	if orig.Body.JSON["username"] != "example" {
		t.Fatalf("json body shared with clone")
	}
	if orig.Body.JSON["tags"].([]any)[1].(map[string]any)["k"] != "v" {
		t.Fatalf("nested json shared with clone")
	}
	if *orig.Assert.Status != 201 {
		t.Fatalf("status assertion shared with clone")
	}
	if len(orig.Assert.JSONPath) != 1 || len(orig.Extract) != 1 {
		t.Fatalf("maps shared with clone")
	}
}

func TestRequestSpecClone_Form(t *testing.T) {
	orig := RequestSpec{Body: BodySpec{Type: BodyForm, Form: map[string]string{"username": "example"}}}
	c := orig.Clone()
	c.Body.Form["username"] = "x"
	if orig.Body.Form["username"] != "example" {
		t.Fatalf("form shared with clone")
	}
}

func TestRequestSpecClone_NilMapsStayNil(t *testing.T) {
	c := RequestSpec{Method: MethodGet, URL: "http://x"}.Clone()
	if c.Headers != nil || c.Body.JSON != nil || c.Extract != nil {
		t.Fatalf("expected nil maps to stay nil: %+v", c)
	}
}

func TestMerge(t *testing.T) {
	got := Merge(Vars{"a": "1", "b": "1"}, nil, Vars{"b": "2"}, Vars{"c": "3"})
	if got["a"] != "1" || got["b"] != "2" || got["c"] != "3" {
		t.Fatalf("unexpected merge %v", got)
	}
}
