// package ui implements the interactive lead magnet wizard.
//
// The TUI is a single bubbletea [Model] layered over the wizard state
// machine: the machine owns stage order, gating, and persistence, and the
// model renders whichever stage is active. Network work (templates, slogan
// suggestions, profile saves, generation) runs in commands so the event
// loop never blocks, and generation progress streams in over a channel.
package ui
