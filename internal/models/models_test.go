package models

import "testing"

func TestDraftTopic(t *testing.T) {
	t.Run("prefers a custom topic", func(t *testing.T) {
		d := Draft{MainTopic: "smart-homes", CustomTopic: "rammed earth homes"}
		if got := d.Topic(); got != "rammed earth homes" {
			t.Errorf("expected custom topic, got %q", got)
		}
	})

	t.Run("falls back to the canonical topic", func(t *testing.T) {
		d := Draft{MainTopic: "smart-homes"}
		if got := d.Topic(); got != "smart-homes" {
			t.Errorf("expected main topic, got %q", got)
		}
	})
}

func TestDraftDisplayTitle(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		want  string
	}{
		{
			name:  "explicit title wins",
			draft: Draft{Title: "My Guide", LeadMagnetType: "guide", MainTopic: "smart-homes"},
			want:  "My Guide",
		},
		{
			name:  "labels both type and topic",
			draft: Draft{LeadMagnetType: "guide", MainTopic: "sustainable-architecture"},
			want:  "Guide: Sustainable Architecture",
		},
		{
			name:  "custom topics pass through unlabeled",
			draft: Draft{LeadMagnetType: "checklist", CustomTopic: "rammed earth homes"},
			want:  "Checklist: rammed earth homes",
		},
		{
			name:  "topic alone stands by itself",
			draft: Draft{MainTopic: "smart-homes"},
			want:  "Smart Homes",
		},
		{
			name:  "empty draft gets a placeholder",
			draft: Draft{},
			want:  "Untitled Lead Magnet",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.draft.DisplayTitle(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
