package app

import (
	"testing"

	"github.com/dkeye/Agora/internal/domain"
)

func TestUpsertFirstJoinerIsSpeaker(t *testing.T) {
	d := NewAttendeeDirectory()

	a := d.Upsert("s1", domain.Profile{Username: "ana"}, "r1", false)
	if !a.IsSpeaker || a.RoomID != "r1" || a.ID != "s1" {
		t.Fatalf("first joiner of a new room must be a speaker, got %+v", a)
	}

	b := d.Upsert("s2", domain.Profile{Username: "bia"}, "r1", true)
	if b.IsSpeaker {
		t.Fatalf("later joiner must start as listener, got %+v", b)
	}
}

func TestUpsertMergesPartialProfile(t *testing.T) {
	d := NewAttendeeDirectory()
	d.Upsert("s1", domain.Profile{Username: "ana", ImageURL: "a.png"}, "", false)

	a := d.Upsert("s1", domain.Profile{PeerID: "peer-1"}, "r1", false)
	if a.Username != "ana" || a.ImageURL != "a.png" || a.PeerID != "peer-1" {
		t.Fatalf("unspecified fields must persist, got %+v", a)
	}
}

func TestUpsertPlaceholderIsNotSpeaker(t *testing.T) {
	d := NewAttendeeDirectory()
	if a := d.Upsert("s1", domain.Profile{}, "", false); a.IsSpeaker {
		t.Fatalf("placeholder must not be a speaker")
	}
}

func TestUpsertRejoinKeepsPermission(t *testing.T) {
	d := NewAttendeeDirectory()
	d.Upsert("s1", domain.Profile{}, "r1", false)

	if a := d.Upsert("s1", domain.Profile{PeerID: "p"}, "r1", true); !a.IsSpeaker {
		t.Fatalf("rejoining the same room must keep speaker, got %+v", a)
	}
	if a := d.Upsert("s1", domain.Profile{}, "r2", true); a.IsSpeaker {
		t.Fatalf("joining another existing room must reset speaker, got %+v", a)
	}
}

func TestReplaceAndRemove(t *testing.T) {
	d := NewAttendeeDirectory()
	if d.Replace(domain.Attendee{ID: "ghost"}) {
		t.Fatalf("replace must ignore unknown ids")
	}
	d.Upsert("s1", domain.Profile{}, "r1", true)
	if !d.Replace(domain.Attendee{ID: "s1", RoomID: "r1", IsSpeaker: true}) {
		t.Fatalf("replace of known id failed")
	}
	if a, _ := d.Get("s1"); !a.IsSpeaker {
		t.Fatalf("replace not applied")
	}
	if _, ok := d.Remove("s1"); !ok {
		t.Fatalf("remove of known id failed")
	}
	if _, ok := d.Remove("s1"); ok {
		t.Fatalf("second remove must report false")
	}
	if d.Len() != 0 {
		t.Fatalf("expected empty directory")
	}
}
