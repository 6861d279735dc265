package manager

import "testing"

func TestReconcileAddsOnlyNewNames(t *testing.T) {
	current := NewDocument()
	current.Connections = []Profile{{Name: "a", Hostname: "old", Port: 22}}

	parsed := []Profile{
		{Name: "a", Hostname: "new", Port: 2222},
		{Name: "b", Hostname: "h", Port: 22},
	}

	doc, added := Reconcile(parsed, current)
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if len(doc.Connections) != 2 {
		t.Fatalf("got %d connections", len(doc.Connections))
	}
	// The existing entry keeps its data; import never overwrites.
	if doc.Connections[0].Hostname != "old" || doc.Connections[0].Port != 22 {
		t.Fatalf("existing profile was overwritten: %+v", doc.Connections[0])
	}
	if doc.Connections[1].Name != "b" {
		t.Fatalf("got %+v", doc.Connections[1])
	}
}

func TestReconcileIdempotent(t *testing.T) {
	parsed := []Profile{
		{Name: "a", Hostname: "h1", Port: 22},
		{Name: "b", Hostname: "h2", Port: 22},
	}

	doc, added := Reconcile(parsed, NewDocument())
	if added != 2 {
		t.Fatalf("first pass added = %d, want 2", added)
	}
	doc, added = Reconcile(parsed, doc)
	if added != 0 {
		t.Fatalf("second pass added = %d, want 0", added)
	}
	if len(doc.Connections) != 2 {
		t.Fatalf("got %d connections", len(doc.Connections))
	}
}

func TestReconcileDeduplicatesWithinBatch(t *testing.T) {
	parsed := []Profile{
		{Name: "a", Hostname: "first", Port: 22},
		{Name: "a", Hostname: "second", Port: 22},
	}
	doc, added := Reconcile(parsed, NewDocument())
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if doc.Connections[0].Hostname != "first" {
		t.Fatalf("first occurrence should win, got %+v", doc.Connections[0])
	}
}

func TestReconcileNilDocument(t *testing.T) {
	doc, added := Reconcile([]Profile{{Name: "a", Hostname: "h", Port: 22}}, nil)
	if doc == nil {
		t.Fatalf("expected a document")
	}
	if added != 1 || len(doc.Connections) != 1 {
		t.Fatalf("added=%d connections=%v", added, doc.Connections)
	}
	if doc.Version != DocumentVersion {
		t.Fatalf("version = %q", doc.Version)
	}
}
