package config

import (
	"fmt"

	"github.com/ellery/par-term/internal/prettifier"
	"github.com/google/uuid"
)

// ProfileID identifies a Profile. Profiles are looked up and chained by
// this id, so it must be stable across saves.
type ProfileID = uuid.UUID

// Profile is a terminal session profile: how to start a session (shell,
// command, working directory), how it looks (badge overrides), how it's
// matched automatically (hostname/tmux/directory patterns), and what it
// inherits from (ParentID).
type Profile struct {
	ID   ProfileID `yaml:"id"`
	Name string    `yaml:"name"`

	WorkingDirectory *string  `yaml:"working_directory,omitempty"`
	Shell            *string  `yaml:"shell,omitempty"`
	LoginShell       *bool    `yaml:"login_shell,omitempty"`
	Command          *string  `yaml:"command,omitempty"`
	CommandArgs      []string `yaml:"command_args,omitempty"`
	TabName          *string  `yaml:"tab_name,omitempty"`
	Icon             *string  `yaml:"icon,omitempty"`
	Order            int      `yaml:"order"`
	Tags             []string `yaml:"tags,omitempty"`

	// ParentID names the profile this one inherits unset fields from.
	// Nil means no parent.
	ParentID *ProfileID `yaml:"parent_id,omitempty"`

	KeyboardShortcut    *string  `yaml:"keyboard_shortcut,omitempty"`
	HostnamePatterns    []string `yaml:"hostname_patterns,omitempty"`
	TmuxSessionPatterns []string `yaml:"tmux_session_patterns,omitempty"`
	DirectoryPatterns   []string `yaml:"directory_patterns,omitempty"`

	BadgeText         *string  `yaml:"badge_text,omitempty"`
	BadgeColor        *[3]byte `yaml:"badge_color,omitempty"`
	BadgeColorAlpha   *float32 `yaml:"badge_color_alpha,omitempty"`
	BadgeFont         *string  `yaml:"badge_font,omitempty"`
	BadgeFontBold     *bool    `yaml:"badge_font_bold,omitempty"`
	BadgeTopMargin    *float32 `yaml:"badge_top_margin,omitempty"`
	BadgeRightMargin  *float32 `yaml:"badge_right_margin,omitempty"`
	BadgeMaxWidth     *float32 `yaml:"badge_max_width,omitempty"`
	BadgeMaxHeight    *float32 `yaml:"badge_max_height,omitempty"`

	SSHHost         *string `yaml:"ssh_host,omitempty"`
	SSHUser         *string `yaml:"ssh_user,omitempty"`
	SSHPort         *uint16 `yaml:"ssh_port,omitempty"`
	SSHIdentityFile *string `yaml:"ssh_identity_file,omitempty"`
	SSHExtraArgs    *string `yaml:"ssh_extra_args,omitempty"`

	// EnablePrettifier and ContentPrettifier are the profile-level
	// content-prettifier overrides (nil = inherit global).
	EnablePrettifier  *bool                       `yaml:"enable_prettifier,omitempty"`
	ContentPrettifier *prettifier.ConfigOverride  `yaml:"content_prettifier,omitempty"`
}

// NewProfile returns a profile with a freshly generated id and every other
// field at its zero value (all-nil except name and id).
func NewProfile(name string) *Profile {
	return &Profile{ID: uuid.New(), Name: name}
}

// ProfileSet is the full collection of profiles loaded from config.yaml,
// keyed by id for O(1) parent lookups during resolution.
type ProfileSet struct {
	byID map[ProfileID]*Profile
	all  []*Profile
}

// NewProfileSet builds a ProfileSet from a flat profile list and validates
// that the parent_id graph it describes is acyclic. The Rust profile model
// defines parent_id but performs no cycle check anywhere in the retrieval
// pack; this validation is this module's own addition (see DESIGN.md).
func NewProfileSet(profiles []*Profile) (*ProfileSet, error) {
	set := &ProfileSet{byID: make(map[ProfileID]*Profile, len(profiles)), all: profiles}
	for _, p := range profiles {
		set.byID[p.ID] = p
	}
	for _, p := range profiles {
		if err := set.checkAcyclic(p.ID); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// checkAcyclic walks the parent_id chain from start, erroring if it ever
// revisits a profile (a cycle) or references an id NewProfileSet doesn't
// know about.
func (s *ProfileSet) checkAcyclic(start ProfileID) error {
	visited := map[ProfileID]bool{start: true}
	current := start
	for {
		p, ok := s.byID[current]
		if !ok {
			return fmt.Errorf("profile %s references unknown parent %s", start, current)
		}
		if p.ParentID == nil {
			return nil
		}
		next := *p.ParentID
		if visited[next] {
			return fmt.Errorf("profile %s has a cyclic parent_id chain through %s", start, next)
		}
		visited[next] = true
		current = next
	}
}

// Get returns the profile with the given id, or nil if none exists.
func (s *ProfileSet) Get(id ProfileID) *Profile {
	return s.byID[id]
}

// All returns every profile in the set, in load order.
func (s *ProfileSet) All() []*Profile {
	return s.all
}

// Resolve walks p's parent_id chain (child overrides parent) and returns a
// Profile with every nil field filled in from the nearest ancestor that
// sets it. The acyclic check in NewProfileSet guarantees this terminates.
func (s *ProfileSet) Resolve(p *Profile) *Profile {
	resolved := *p
	current := p
	for current.ParentID != nil {
		parent := s.byID[*current.ParentID]
		if parent == nil {
			break
		}
		resolved.mergeMissingFrom(parent)
		current = parent
	}
	return &resolved
}

// mergeMissingFrom fills any nil/zero-value field of r from parent,
// without overwriting a field r already set.
func (r *Profile) mergeMissingFrom(parent *Profile) {
	if r.WorkingDirectory == nil {
		r.WorkingDirectory = parent.WorkingDirectory
	}
	if r.Shell == nil {
		r.Shell = parent.Shell
	}
	if r.LoginShell == nil {
		r.LoginShell = parent.LoginShell
	}
	if r.Command == nil {
		r.Command = parent.Command
	}
	if r.CommandArgs == nil {
		r.CommandArgs = parent.CommandArgs
	}
	if r.TabName == nil {
		r.TabName = parent.TabName
	}
	if r.Icon == nil {
		r.Icon = parent.Icon
	}
	if r.BadgeText == nil {
		r.BadgeText = parent.BadgeText
	}
	if r.BadgeColor == nil {
		r.BadgeColor = parent.BadgeColor
	}
	if r.BadgeColorAlpha == nil {
		r.BadgeColorAlpha = parent.BadgeColorAlpha
	}
	if r.BadgeFont == nil {
		r.BadgeFont = parent.BadgeFont
	}
	if r.BadgeFontBold == nil {
		r.BadgeFontBold = parent.BadgeFontBold
	}
	if r.BadgeTopMargin == nil {
		r.BadgeTopMargin = parent.BadgeTopMargin
	}
	if r.BadgeRightMargin == nil {
		r.BadgeRightMargin = parent.BadgeRightMargin
	}
	if r.BadgeMaxWidth == nil {
		r.BadgeMaxWidth = parent.BadgeMaxWidth
	}
	if r.BadgeMaxHeight == nil {
		r.BadgeMaxHeight = parent.BadgeMaxHeight
	}
	if r.SSHHost == nil {
		r.SSHHost = parent.SSHHost
	}
	if r.SSHUser == nil {
		r.SSHUser = parent.SSHUser
	}
	if r.SSHPort == nil {
		r.SSHPort = parent.SSHPort
	}
	if r.SSHIdentityFile == nil {
		r.SSHIdentityFile = parent.SSHIdentityFile
	}
	if r.SSHExtraArgs == nil {
		r.SSHExtraArgs = parent.SSHExtraArgs
	}
	if r.EnablePrettifier == nil {
		r.EnablePrettifier = parent.EnablePrettifier
	}
	if r.ContentPrettifier == nil {
		r.ContentPrettifier = parent.ContentPrettifier
	}
}
