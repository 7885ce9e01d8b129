// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin view over a [workflow.Workflow]:
//  1. [SearchMode] : Type an artist query
//  2. [ResultsMode] : Pick one of the ranked results, then choose its track count
//  3. [CartMode] : Review the selected artists, toggle them, adjust counts and submit
//  4. [PosterMode] / [NameMode] : Enter a poster path or the playlist name
//
// The (view) [Model] never owns workflow state. It subscribes to the workflow's store and re-renders
// each [workflow.Snapshot] it receives; key presses call workflow operations, slow ones from a [tea.Cmd].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
