package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/tasks"
	"github.com/formahq/forma/internal/wizard"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProfileView ViewState = iota
	BasicsView
	AudienceView
	ContentView
	TemplateView
	ReviewView
	GenerateView
	ResultView
)

// Model represents the wizard TUI application state.
type Model struct {
	ctx     context.Context
	machine *wizard.Machine
	forma   *services.FormaService
	engine  *tasks.GenerateEngine

	view   ViewState
	width  int
	height int
	help   help.Model
	keys   keyMap

	// Text-input stages
	inputs []labeledInput
	focus  int

	// Basics stage
	typeList  list.Model
	topicList list.Model
	listFocus int

	// Template stage
	templates      []models.PDFTemplate
	templateList   list.Model
	imagesInput    textinput.Model
	templateFocus  int
	imagesWarnings []string

	choices *models.ValidChoices

	progressChan chan tasks.ProgressUpdate
	doneChan     chan generateCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.GenerateResult
	status       string
	err          error
}

type labeledInput struct {
	label string
	input textinput.Model
}

type bootstrapDoneMsg struct {
	choices *models.ValidChoices
	err     error
}

type templatesFetchedMsg struct {
	templates []models.PDFTemplate
	err       error
}

type stageAdvancedMsg struct{ err error }

type sloganFetchedMsg struct {
	slogan string
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type generateCompleteMsg struct {
	result *tasks.GenerateResult
	err    error
}

// NewModel creates a new wizard TUI model with the provided dependencies.
func NewModel(ctx context.Context, machine *wizard.Machine, forma *services.FormaService, engine *tasks.GenerateEngine) *Model {
	return &Model{
		ctx:     ctx,
		machine: machine,
		forma:   forma,
		engine:  engine,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init resolves the existing firm profile and the server's option lists
// before showing the first stage.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		err := m.machine.Bootstrap(m.ctx)
		// The canonical lists in models cover a fetch failure.
		choices, _ := m.forma.GetValidChoices(m.ctx)
		return bootstrapDoneMsg{choices: choices, err: err}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case bootstrapDoneMsg:
		m.choices = msg.choices
		return m, m.syncStage()

	case templatesFetchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load templates: %v", msg.err)
			return m, nil
		}
		m.templates = msg.templates
		m.templateList = list.New(templateItems(msg.templates), list.NewDefaultDelegate(), 0, 0)
		m.templateList.Title = "Templates"
		m.resizeLists()
		return m, nil

	case stageAdvancedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		return m, m.syncStage()

	case sloganFetchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Slogan suggestion failed: %v", msg.err)
			return m, nil
		}
		m.machine.Form().Draft.SpecialRequests = msg.slogan
		m.status = fmt.Sprintf("Slogan: %s", msg.slogan)
		return m, m.syncStage()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case generateCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case ProfileView, AudienceView, ContentView:
			return m.handleInputKeys(msg)
		case BasicsView:
			return m.handleBasicsKeys(msg)
		case TemplateView:
			return m.handleTemplateKeys(msg)
		case ReviewView:
			return m.handleReviewKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ProfileView, AudienceView, ContentView:
		return m.renderInputs()
	case BasicsView:
		return m.renderBasics()
	case TemplateView:
		return m.renderTemplate()
	case ReviewView:
		return m.renderReview()
	case GenerateView:
		return m.renderGenerate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// syncStage rebuilds the view for the machine's current stage.
func (m *Model) syncStage() tea.Cmd {
	form := m.machine.Form()

	switch m.machine.Current().ID {
	case wizard.StageFirmProfile:
		m.view = ProfileView
		m.buildInputs([]fieldSpec{
			{"Firm name", form.Profile.FirmName, "Acme Architecture"},
			{"Work email", form.Profile.WorkEmail, "you@firm.com"},
			{"Firm size", form.Profile.FirmSize, "1-2, 3-5, 6-10, 11+"},
			{"Country", form.Profile.LocationCountry, "US"},
			{"Website", form.Profile.FirmWebsite, "firm.com (optional)"},
		})
	case wizard.StageBasics:
		m.view = BasicsView
		if len(m.typeList.Items()) == 0 {
			types, topics := models.LeadMagnetTypes, models.MainTopics
			if m.choices != nil {
				if len(m.choices.LeadMagnetTypes) > 0 {
					types = m.choices.LeadMagnetTypes
				}
				if len(m.choices.MainTopics) > 0 {
					topics = m.choices.MainTopics
				}
			}
			m.typeList = list.New(choiceItems(types), list.NewDefaultDelegate(), 0, 0)
			m.typeList.Title = "Lead magnet type"
			m.topicList = list.New(choiceItems(topics), list.NewDefaultDelegate(), 0, 0)
			m.topicList.Title = "Main topic"
			m.resizeLists()
		}
		m.listFocus = 0
	case wizard.StageAudience:
		m.view = AudienceView
		m.buildInputs([]fieldSpec{
			{"Target audiences (comma separated)", strings.Join(form.Draft.TargetAudience, ", "), "Homeowners, Developers"},
			{"Pain points (comma separated)", strings.Join(form.Draft.PainPoints, ", "), "High costs, Long timelines"},
		})
	case wizard.StageContent:
		m.view = ContentView
		m.buildInputs([]fieldSpec{
			{"Desired outcome", form.Draft.DesiredOutcome, "What should the reader learn?"},
			{"Call to action", form.Draft.CallToAction, "Book a consultation"},
			{"Special requests", form.Draft.SpecialRequests, "optional"},
		})
	case wizard.StageTemplate:
		m.view = TemplateView
		m.templateFocus = 0
		m.imagesInput = textinput.New()
		m.imagesInput.Placeholder = "path/to/one.jpg, path/to/two.png, path/to/three.webp"
		if m.templates == nil {
			return m.fetchTemplates()
		}
	case wizard.StageReview:
		m.view = ReviewView
	}
	return nil
}

type fieldSpec struct {
	label       string
	value       string
	placeholder string
}

func (m *Model) buildInputs(specs []fieldSpec) {
	m.inputs = make([]labeledInput, len(specs))
	for i, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.SetValue(spec.value)
		if i == 0 {
			in.Focus()
		}
		m.inputs[i] = labeledInput{label: spec.label, input: in}
	}
	m.focus = 0
}

// commitStage writes the current view's values back onto the form.
func (m *Model) commitStage() {
	form := m.machine.Form()

	switch m.view {
	case ProfileView:
		form.Profile.FirmName = m.inputValue(0)
		form.Profile.WorkEmail = m.inputValue(1)
		form.Profile.FirmSize = m.inputValue(2)
		form.Profile.LocationCountry = m.inputValue(3)
		form.Profile.FirmWebsite = m.inputValue(4)
	case AudienceView:
		form.Draft.TargetAudience = splitList(m.inputValue(0))
		form.Draft.PainPoints = splitList(m.inputValue(1))
	case ContentView:
		form.Draft.DesiredOutcome = m.inputValue(0)
		form.Draft.CallToAction = m.inputValue(1)
		form.Draft.SpecialRequests = m.inputValue(2)
	}
}

func (m *Model) inputValue(i int) string {
	if i >= len(m.inputs) {
		return ""
	}
	return strings.TrimSpace(m.inputs[i].input.Value())
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// advance commits the stage and asks the machine to move forward. The
// on-leave hook may hit the network, so the transition runs as a command.
func (m *Model) advance() tea.Cmd {
	m.commitStage()
	if !m.machine.CanProceed() {
		m.status = "Please fill in all required fields before continuing"
		return nil
	}
	return func() tea.Msg {
		return stageAdvancedMsg{err: m.machine.Next(m.ctx)}
	}
}

// goBack steps to the previous stage; backward moves are never gated.
func (m *Model) goBack() tea.Cmd {
	if m.machine.AtFirst() {
		return nil
	}
	m.commitStage()
	m.machine.Back()
	m.status = ""
	return m.syncStage()
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.goBack()
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.up):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.slogan) && m.view == ContentView:
		return m, m.fetchSlogan()
	case key.Matches(msg, m.keys.enter):
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m, m.advance()
	}

	var cmd tea.Cmd
	m.inputs[m.focus].input, cmd = m.inputs[m.focus].input.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(focus int) {
	if focus < 0 {
		focus = len(m.inputs) - 1
	}
	if focus >= len(m.inputs) {
		focus = 0
	}
	m.inputs[m.focus].input.Blur()
	m.focus = focus
	m.inputs[m.focus].input.Focus()
}

func (m *Model) handleBasicsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.machine.Form()

	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.goBack()
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.prev):
		m.listFocus = 1 - m.listFocus
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.listFocus == 0 {
			if item, ok := m.typeList.SelectedItem().(choiceItem); ok {
				form.Draft.LeadMagnetType = item.choice.Value
				m.listFocus = 1
			}
			return m, nil
		}
		if item, ok := m.topicList.SelectedItem().(choiceItem); ok {
			form.Draft.MainTopic = item.choice.Value
		}
		return m, m.advance()
	}

	var cmd tea.Cmd
	if m.listFocus == 0 {
		m.typeList, cmd = m.typeList.Update(msg)
	} else {
		m.topicList, cmd = m.topicList.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleTemplateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.machine.Form()

	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.goBack()
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.prev):
		m.templateFocus = 1 - m.templateFocus
		if m.templateFocus == 1 {
			m.imagesInput.Focus()
		} else {
			m.imagesInput.Blur()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.templateFocus == 0 {
			if item, ok := m.templateList.SelectedItem().(templateItem); ok {
				form.Draft.TemplateID = item.template.ID
				form.Draft.TemplateName = item.template.Name
				m.templateFocus = 1
				m.imagesInput.Focus()
			}
			return m, nil
		}
		if form.Images != nil {
			form.Images.Clear()
			m.imagesWarnings = form.Images.AddFiles(splitList(m.imagesInput.Value())...)
		}
		return m, m.advance()
	}

	var cmd tea.Cmd
	if m.templateFocus == 0 {
		m.templateList, cmd = m.templateList.Update(msg)
	} else {
		m.imagesInput, cmd = m.imagesInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.goBack()
	case key.Matches(msg, m.keys.enter):
		m.view = GenerateView
		return m, m.startGenerate()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fetchTemplates() tea.Cmd {
	return func() tea.Msg {
		templates, err := m.forma.GetTemplates(m.ctx)
		return templatesFetchedMsg{templates: templates, err: err}
	}
}

func (m *Model) fetchSlogan() tea.Cmd {
	m.commitStage()
	form := m.machine.Form()
	return func() tea.Msg {
		slogan, err := m.forma.GenerateSlogan(m.ctx, services.SloganRequest{
			Answers:     &form.Draft,
			FirmProfile: &form.Profile,
		})
		return sloganFetchedMsg{slogan: slogan, err: err}
	}
}

func (m *Model) startGenerate() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan generateCompleteMsg, 1)
	form := m.machine.Form()

	progressChan := m.progressChan
	doneChan := m.doneChan
	go func() {
		magnet, err := m.machine.Generate(m.ctx)
		if err != nil {
			doneChan <- generateCompleteMsg{err: err}
			return
		}

		var images []string
		if form.Images != nil {
			if urls, err := form.Images.DataURLs(); err == nil {
				images = urls
			}
		}

		result, err := m.engine.Run(m.ctx, services.GeneratePDFRequest{
			LeadMagnetID: magnet.ID,
			TemplateID:   form.Draft.TemplateID,
			UseAIContent: true,
			Answers:      &form.Draft,
			Images:       images,
		}, progressChan)
		doneChan <- generateCompleteMsg{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, doneChan := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progressChan == nil || doneChan == nil {
			return nil
		}
		select {
		case update := <-progressChan:
			return progressUpdateMsg(update)
		case done := <-doneChan:
			return done
		}
	}
}

func (m *Model) resizeLists() {
	w, h := m.width-4, m.height-10
	if w <= 0 || h <= 0 {
		return
	}
	for _, l := range []*list.Model{&m.typeList, &m.topicList, &m.templateList} {
		l.SetSize(w, h)
	}
}

func (m *Model) header() string {
	stage := m.machine.Current()
	title := fmt.Sprintf("Step %d of %d: %s", m.machine.Index()+1, m.machine.Len(), stage.Title)
	return styles.title.Render(title) + "\n" + styles.dim.Render(stage.Description)
}

func (m *Model) footer() string {
	out := ""
	if m.status != "" {
		out = styles.warn.Render(m.status) + "\n"
	}
	return out + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	for i, field := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = styles.ok.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s\n%s  %s\n\n", cursor, styles.label.Render(field.label), "  ", field.input.View()))
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) renderBasics() string {
	form := m.machine.Form()
	picked := fmt.Sprintf("Type: %s    Topic: %s", orDash(form.Draft.LeadMagnetType), orDash(form.Draft.MainTopic))

	active := m.typeList
	if m.listFocus == 1 {
		active = m.topicList
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", m.header(), styles.dim.Render(picked), active.View(), m.footer())
}

func (m *Model) renderTemplate() string {
	form := m.machine.Form()
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.templateFocus == 0 {
		b.WriteString(m.templateList.View())
	} else {
		required := 0
		if form.Images != nil {
			required = form.Images.Required()
		}
		b.WriteString(fmt.Sprintf("%s\n\n  %s\n", styles.label.Render(fmt.Sprintf("Images (exactly %d)", required)), m.imagesInput.View()))
		for _, warning := range m.imagesWarnings {
			b.WriteString(styles.warn.Render("  ! "+warning) + "\n")
		}
		if form.Images != nil {
			b.WriteString(styles.dim.Render(fmt.Sprintf("  %d of %d slots filled", form.Images.FilledCount(), form.Images.Required())) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) renderReview() string {
	form := m.machine.Form()
	d := form.Draft

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Title:      %s\n", d.DisplayTitle()))
	b.WriteString(fmt.Sprintf("  Type:       %s\n", orDash(d.LeadMagnetType)))
	b.WriteString(fmt.Sprintf("  Topic:      %s\n", orDash(d.Topic())))
	b.WriteString(fmt.Sprintf("  Audience:   %s\n", orDash(strings.Join(d.TargetAudience, ", "))))
	b.WriteString(fmt.Sprintf("  Pain:       %s\n", orDash(strings.Join(d.PainPoints, ", "))))
	b.WriteString(fmt.Sprintf("  Outcome:    %s\n", orDash(d.DesiredOutcome)))
	b.WriteString(fmt.Sprintf("  CTA:        %s\n", orDash(d.CallToAction)))
	b.WriteString(fmt.Sprintf("  Template:   %s\n", orDash(d.TemplateName)))
	if form.Images != nil {
		b.WriteString(fmt.Sprintf("  Images:     %d of %d\n", form.Images.FilledCount(), form.Images.Required()))
	}
	b.WriteString("\n  " + styles.ok.Render("Press enter to generate") + "\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating your lead magnet")
	message := m.progress.Message
	if message == "" {
		message = "Submitting..."
	}
	return fmt.Sprintf("%s\n\n%s\n", title, message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v", m.err)) + "\n\n" + styles.help.Render("Press q to quit")
	}
	if m.result == nil || m.result.Skipped {
		return styles.warn.Render("A generation was already in flight; nothing was produced.") + "\n\n" + styles.help.Render("Press q to quit")
	}

	title := styles.ok.Render("✓ Lead magnet generated!")
	info := fmt.Sprintf("\nSaved to: %s (%d bytes)\n", m.result.Path, m.result.Bytes)
	return fmt.Sprintf("%s\n%s\n%s", title, info, styles.help.Render("Press q to quit"))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
