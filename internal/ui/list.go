package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/formahq/forma/internal/models"
)

var (
	_ list.Item = choiceItem{}
	_ list.Item = templateItem{}
)

// choiceItem wraps [models.Choice] to implement [list.Item].
type choiceItem struct {
	choice models.Choice
}

func (i choiceItem) FilterValue() string { return i.choice.Label }
func (i choiceItem) Title() string       { return i.choice.Label }
func (i choiceItem) Description() string { return i.choice.Value }

// templateItem wraps [models.PDFTemplate] to implement [list.Item].
type templateItem struct {
	template models.PDFTemplate
}

func (i templateItem) FilterValue() string { return i.template.Name }
func (i templateItem) Title() string       { return i.template.Name }
func (i templateItem) Description() string {
	if i.template.Description != "" {
		return i.template.Description
	}
	return i.template.ID
}

func choiceItems(choices []models.Choice) []list.Item {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = choiceItem{choice: c}
	}
	return items
}

func templateItems(templates []models.PDFTemplate) []list.Item {
	items := make([]list.Item, len(templates))
	for i, t := range templates {
		items[i] = templateItem{template: t}
	}
	return items
}
