package session

import (
	"reflect"
	"testing"

	"github.com/llxprt/jefe/internal/domain"
)

func TestInsertThenDuplicateFails(t *testing.T) {
	r := New()
	id := domain.AgentId("a1")
	sig := domain.LaunchSignature{WorkDir: "/tmp/a1"}

	if _, err := r.Insert(id, sig); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := r.Insert(id, sig); err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestSessionNameDeterministic(t *testing.T) {
	if got, want := SessionNameFor(domain.AgentId("xyz")), "jefe-xyz"; got != want {
		t.Fatalf("SessionNameFor = %q, want %q", got, want)
	}
}

func TestRemoveMovesToDeadTable(t *testing.T) {
	r := New()
	id := domain.AgentId("a1")
	sig := domain.LaunchSignature{WorkDir: "/tmp/a1"}
	_, _ = r.Insert(id, sig)

	got, ok := r.Remove(id)
	if !ok {
		t.Fatalf("expected Remove to succeed")
	}
	if !reflect.DeepEqual(got, sig) {
		t.Fatalf("Remove returned %+v, want %+v", got, sig)
	}
	if r.IsLive(id) {
		t.Fatalf("expected id no longer live")
	}

	deadSig, ok := r.ConsumeDead(id)
	if !ok || !reflect.DeepEqual(deadSig, sig) {
		t.Fatalf("expected dead signature to match, got %+v ok=%v", deadSig, ok)
	}

	// Consuming twice should fail the second time.
	if _, ok := r.ConsumeDead(id); ok {
		t.Fatalf("expected second ConsumeDead to fail")
	}
}

func TestAtMostOneAttached(t *testing.T) {
	r := New()
	idA, idB := domain.AgentId("a"), domain.AgentId("b")
	_, _ = r.Insert(idA, domain.LaunchSignature{})
	_, _ = r.Insert(idB, domain.LaunchSignature{})

	r.SetAttached(idA)
	rsA, _ := r.Get(idA)
	if !rsA.Attached {
		t.Fatalf("expected a attached")
	}

	r.SetAttached(idB)
	rsA, _ = r.Get(idA)
	rsB, _ := r.Get(idB)
	if rsA.Attached {
		t.Fatalf("expected a no longer attached after switching to b")
	}
	if !rsB.Attached {
		t.Fatalf("expected b attached")
	}
}
