// Package fixtures holds the static mock data the mesh is served from.
// The YAML files are embedded at build time and decoded once at start-up.
package fixtures

import (
	"embed"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"lumina/internal/domain/models/mesh"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// Set is the complete fixture corpus
type Set struct {
	Documents     []mesh.Document
	Collections   []mesh.Collection
	History       []mesh.HistoryEvent
	LiveTemplates []mesh.HistoryEvent
	Collaborators []mesh.Collaborator
	Chat          []mesh.ChatMessage
}

type documentsFile struct {
	Documents []mesh.Document `yaml:"documents"`
}

type collectionsFile struct {
	Collections []mesh.Collection `yaml:"collections"`
}

type historyFile struct {
	History       []mesh.HistoryEvent `yaml:"history"`
	LiveTemplates []mesh.HistoryEvent `yaml:"live_templates"`
}

type collaboratorsFile struct {
	Collaborators []mesh.Collaborator `yaml:"collaborators"`
}

type chatFile struct {
	Messages []mesh.ChatMessage `yaml:"messages"`
}

// Load decodes and validates every embedded fixture file
func Load() (*Set, error) {
	var (
		docs    documentsFile
		cols    collectionsFile
		hist    historyFile
		collabs collaboratorsFile
		chat    chatFile
	)

	for name, dest := range map[string]interface{}{
		"documents":     &docs,
		"collections":   &cols,
		"history":       &hist,
		"collaborators": &collabs,
		"chat":          &chat,
	} {
		if err := loadFile(name, dest); err != nil {
			return nil, err
		}
	}

	set := &Set{
		Documents:     docs.Documents,
		Collections:   cols.Collections,
		History:       hist.History,
		LiveTemplates: hist.LiveTemplates,
		Collaborators: collabs.Collaborators,
		Chat:          chat.Messages,
	}

	if err := set.validate(); err != nil {
		return nil, err
	}
	if err := set.resolveChatSources(); err != nil {
		return nil, err
	}

	return set, nil
}

// MustLoad is Load for callers that cannot continue without fixtures
func MustLoad() *Set {
	set, err := Load()
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return set
}

// loadFile reads data/<name>.yaml into dest
func loadFile(name string, dest interface{}) error {
	filename := fmt.Sprintf("data/%s.yaml", name)
	data, err := dataFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	return nil
}

func (s *Set) validate() error {
	seen := make(map[string]bool)
	for i := range s.Documents {
		d := &s.Documents[i]
		if err := validation.ValidateStruct(d,
			validation.Field(&d.ID, validation.Required),
			validation.Field(&d.Title, validation.Required),
			validation.Field(&d.Type, validation.Required, validation.In(docTypes()...)),
			validation.Field(&d.Status, validation.Required, validation.In(
				mesh.DocStatusIndexed, mesh.DocStatusProcessing, mesh.DocStatusError,
			)),
		); err != nil {
			return fmt.Errorf("document %q: %w", d.ID, err)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate document id %q", d.ID)
		}
		seen[d.ID] = true
	}

	seen = make(map[string]bool)
	for i := range s.Collections {
		c := &s.Collections[i]
		if err := validation.ValidateStruct(c,
			validation.Field(&c.ID, validation.Required, validation.NotIn(mesh.MasterCollectionID)),
			validation.Field(&c.Name, validation.Required),
			validation.Field(&c.CoverImage, is.URL),
			validation.Field(&c.ItemCount, validation.Min(0)),
			validation.Field(&c.Visibility, validation.Required, validation.In(
				mesh.VisibilityPrivate, mesh.VisibilityTeam, mesh.VisibilityPublic,
			)),
		); err != nil {
			return fmt.Errorf("collection %q: %w", c.ID, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate collection id %q", c.ID)
		}
		seen[c.ID] = true
	}

	seen = make(map[string]bool)
	for i := range s.History {
		if err := validateEvent(&s.History[i], true); err != nil {
			return fmt.Errorf("history %q: %w", s.History[i].ID, err)
		}
		if seen[s.History[i].ID] {
			return fmt.Errorf("duplicate history id %q", s.History[i].ID)
		}
		seen[s.History[i].ID] = true
	}
	if len(s.LiveTemplates) == 0 {
		return fmt.Errorf("history: live_templates must not be empty")
	}
	for i := range s.LiveTemplates {
		if err := validateEvent(&s.LiveTemplates[i], false); err != nil {
			return fmt.Errorf("live template %d: %w", i, err)
		}
	}

	seen = make(map[string]bool)
	for i := range s.Collaborators {
		c := &s.Collaborators[i]
		if err := validation.ValidateStruct(c,
			validation.Field(&c.ID, validation.Required),
			validation.Field(&c.Name, validation.Required),
			validation.Field(&c.Email, validation.Required, is.EmailFormat),
			validation.Field(&c.Role, validation.Required, validation.In(
				mesh.RoleAdmin, mesh.RoleEditor, mesh.RoleViewer,
			)),
		); err != nil {
			return fmt.Errorf("collaborator %q: %w", c.ID, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate collaborator id %q", c.ID)
		}
		seen[c.ID] = true
	}

	return nil
}

func validateEvent(e *mesh.HistoryEvent, requireID bool) error {
	idRules := []validation.Rule{}
	if requireID {
		idRules = append(idRules, validation.Required)
	}
	return validation.ValidateStruct(e,
		validation.Field(&e.ID, idRules...),
		validation.Field(&e.Type, validation.Required, validation.In(
			mesh.EventEdit, mesh.EventAccess, mesh.EventProvision, mesh.EventRollback,
		)),
		validation.Field(&e.User, validation.Required),
		validation.Field(&e.Description, validation.Required),
	)
}

// resolveChatSources replaces source ids in the seed transcript with documents
func (s *Set) resolveChatSources() error {
	byID := make(map[string]mesh.Document, len(s.Documents))
	for _, d := range s.Documents {
		byID[d.ID] = d
	}

	for i := range s.Chat {
		msg := &s.Chat[i]
		for _, id := range msg.SourceIDs {
			doc, ok := byID[id]
			if !ok {
				return fmt.Errorf("chat message %q: unknown source document %q", msg.ID, id)
			}
			msg.Sources = append(msg.Sources, doc)
		}
	}
	return nil
}

func docTypes() []interface{} {
	out := make([]interface{}, len(mesh.AllDocTypes))
	for i, t := range mesh.AllDocTypes {
		out[i] = t
	}
	return out
}
