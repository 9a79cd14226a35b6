// package wizard drives the multi-stage lead magnet creation flow.
//
// One machine serves every entry point into the flow: stages are data, not
// code paths, so the TUI and any headless driver walk the same ordered
// descriptors with the same gating.
package wizard

import (
	"context"
	"fmt"

	"github.com/formahq/forma/internal/images"
	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
)

// StageID identifies a wizard stage.
type StageID string

const (
	StageFirmProfile StageID = "firm-profile"
	StageBasics      StageID = "basics"
	StageAudience    StageID = "audience"
	StageContent     StageID = "content"
	StageTemplate    StageID = "template"
	StageReview      StageID = "review"
)

// Form is the working state the stages read and write.
type Form struct {
	Profile models.FirmProfile
	Draft   models.Draft
	Images  *images.Batch
}

// Stage describes one step of the flow. Complete gates forward navigation;
// OnLeave runs side effects on the first successful forward transition out
// of the stage and blocks the advance when it fails.
type Stage struct {
	ID          StageID
	Title       string
	Description string
	Complete    func(*Form) bool
	OnLeave     func(context.Context, *Form) error
}

// API is the slice of the Forma façade the machine needs.
type API interface {
	GetFirmProfile(ctx context.Context) (*models.FirmProfile, error)
	CreateFirmProfile(ctx context.Context, profile *models.FirmProfile) (*models.FirmProfile, error)
	CreateLeadMagnet(ctx context.Context, req services.CreateLeadMagnetRequest) (*models.LeadMagnet, error)
	SelectTemplate(ctx context.Context, req services.TemplateSelectionRequest) error
}

// DraftStore persists the draft between runs; nil disables persistence.
type DraftStore interface {
	Save(id, stage string, draft *models.Draft) error
	Delete(id string) error
}

// Machine walks an ordered list of stages over a shared form.
type Machine struct {
	stages []Stage
	index  int
	form   *Form
	api    API

	drafts  DraftStore
	draftID string

	hasProfile bool
	created    *models.LeadMagnet
}

// NewMachine builds the standard six-stage flow.
func NewMachine(api API, form *Form) *Machine {
	m := &Machine{form: form, api: api}
	m.stages = []Stage{
		{
			ID:          StageFirmProfile,
			Title:       "Firm Profile",
			Description: "Tell us about your firm",
			Complete: func(f *Form) bool {
				p := f.Profile
				return p.FirmName != "" && p.WorkEmail != "" && p.FirmSize != "" && p.LocationCountry != ""
			},
			OnLeave: m.saveProfile,
		},
		{
			ID:          StageBasics,
			Title:       "Basics",
			Description: "Choose the type and topic",
			Complete: func(f *Form) bool {
				return f.Draft.LeadMagnetType != "" && f.Draft.Topic() != ""
			},
		},
		{
			ID:          StageAudience,
			Title:       "Audience",
			Description: "Who is this for and what hurts",
			Complete: func(f *Form) bool {
				return len(f.Draft.TargetAudience) > 0 && len(f.Draft.PainPoints) > 0
			},
		},
		{
			ID:          StageContent,
			Title:       "Content",
			Description: "Outcome and call to action",
			Complete: func(f *Form) bool {
				return f.Draft.DesiredOutcome != "" && f.Draft.CallToAction != ""
			},
		},
		{
			ID:          StageTemplate,
			Title:       "Template & Images",
			Description: "Pick a layout and fill the image slots",
			Complete: func(f *Form) bool {
				if f.Draft.TemplateID == "" {
					return false
				}
				return f.Images == nil || f.Images.Ready() == nil
			},
		},
		{
			ID:          StageReview,
			Title:       "Review",
			Description: "Confirm and generate",
			Complete:    func(*Form) bool { return true },
		},
	}
	return m
}

// WithDraftStore enables draft persistence across runs.
func (m *Machine) WithDraftStore(store DraftStore, id string) *Machine {
	m.drafts = store
	if id == "" {
		id = shared.GenerateID()
	}
	m.draftID = id
	return m
}

// Bootstrap loads an existing firm profile. A profile with a firm name
// skips the flow straight to the basics stage and marks later profile
// writes as updates rather than creates.
func (m *Machine) Bootstrap(ctx context.Context) error {
	profile, err := m.api.GetFirmProfile(ctx)
	if err != nil || profile == nil || profile.FirmName == "" {
		return nil
	}

	m.form.Profile = *profile
	m.hasProfile = true
	if m.index == 0 {
		for i, s := range m.stages {
			if s.ID == StageBasics {
				m.index = i
				break
			}
		}
	}
	return nil
}

// Form returns the working state the stages operate on.
func (m *Machine) Form() *Form { return m.form }

// HasExistingProfile reports whether the account already had a firm profile.
func (m *Machine) HasExistingProfile() bool { return m.hasProfile }

// Current returns the active stage.
func (m *Machine) Current() Stage { return m.stages[m.index] }

// Index returns the zero-based position of the active stage.
func (m *Machine) Index() int { return m.index }

// Len returns the total stage count.
func (m *Machine) Len() int { return len(m.stages) }

// AtFirst reports whether the machine is on the first stage.
func (m *Machine) AtFirst() bool { return m.index == 0 }

// AtLast reports whether the machine is on the final stage.
func (m *Machine) AtLast() bool { return m.index == len(m.stages)-1 }

// CanProceed reports whether the active stage's gate passes.
func (m *Machine) CanProceed() bool { return m.stages[m.index].Complete(m.form) }

// Next advances to the following stage. Incomplete stages and failed
// on-leave hooks block the move.
func (m *Machine) Next(ctx context.Context) error {
	if m.AtLast() {
		return nil
	}

	stage := m.stages[m.index]
	if !stage.Complete(m.form) {
		return fmt.Errorf("%w: complete the %s stage before continuing", shared.ErrValidation, stage.Title)
	}
	if stage.OnLeave != nil {
		if err := stage.OnLeave(ctx, m.form); err != nil {
			return err
		}
	}

	m.index++
	m.persist()
	return nil
}

// Back moves to the previous stage without validation or remote calls.
func (m *Machine) Back() {
	if m.index > 0 {
		m.index--
	}
}

// Restore positions the machine on a previously saved stage.
func (m *Machine) Restore(stage StageID, draft models.Draft) {
	m.form.Draft = draft
	for i, s := range m.stages {
		if s.ID == stage {
			m.index = i
			return
		}
	}
}

// Generate submits the lead magnet from the review stage: one create call,
// then the template binding when a template was chosen.
func (m *Machine) Generate(ctx context.Context) (*models.LeadMagnet, error) {
	req := services.CreateLeadMagnetRequest{
		Title:       m.form.Draft.DisplayTitle(),
		Description: m.form.Draft.Description,
		Answers:     &m.form.Draft,
	}
	if !m.hasProfile {
		req.FirmProfile = &m.form.Profile
	}

	magnet, err := m.api.CreateLeadMagnet(ctx, req)
	if err != nil {
		return nil, err
	}
	m.created = magnet

	if m.form.Draft.TemplateID != "" {
		sel := services.TemplateSelectionRequest{
			LeadMagnetID: magnet.ID,
			TemplateID:   m.form.Draft.TemplateID,
			TemplateName: m.form.Draft.TemplateName,
		}
		if err := m.api.SelectTemplate(ctx, sel); err != nil {
			return magnet, err
		}
	}

	if m.drafts != nil && m.draftID != "" {
		m.drafts.Delete(m.draftID)
	}
	return magnet, nil
}

// Created returns the lead magnet produced by Generate, if any.
func (m *Machine) Created() *models.LeadMagnet { return m.created }

// saveProfile creates the firm profile the first time the user leaves the
// profile stage. Existing profiles are left alone here; explicit updates go
// through the profile command.
func (m *Machine) saveProfile(ctx context.Context, form *Form) error {
	if m.hasProfile {
		return nil
	}
	saved, err := m.api.CreateFirmProfile(ctx, &form.Profile)
	if err != nil {
		return fmt.Errorf("failed to save firm profile: %w", err)
	}
	if saved != nil {
		form.Profile = *saved
	}
	m.hasProfile = true
	return nil
}

// persist snapshots the draft after a successful forward transition.
func (m *Machine) persist() {
	if m.drafts == nil || m.draftID == "" {
		return
	}
	m.drafts.Save(m.draftID, string(m.Current().ID), &m.form.Draft)
}
