package config

import "testing"

func TestNewProfileSetDetectsDirectCycle(t *testing.T) {
	a := NewProfile("a")
	b := NewProfile("b")
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	if _, err := NewProfileSet([]*Profile{a, b}); err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestNewProfileSetDetectsSelfCycle(t *testing.T) {
	a := NewProfile("a")
	a.ParentID = &a.ID

	if _, err := NewProfileSet([]*Profile{a}); err == nil {
		t.Fatal("expected a self-cycle error")
	}
}

func TestNewProfileSetAcceptsChain(t *testing.T) {
	base := NewProfile("base")
	mid := NewProfile("mid")
	mid.ParentID = &base.ID
	leaf := NewProfile("leaf")
	leaf.ParentID = &mid.ID

	if _, err := NewProfileSet([]*Profile{base, mid, leaf}); err != nil {
		t.Fatalf("expected no error for a valid chain, got %v", err)
	}
}

func TestResolveInheritsUnsetFieldsFromParent(t *testing.T) {
	parentShell := "/bin/zsh"
	base := NewProfile("base")
	base.Shell = &parentShell

	childTab := "work"
	child := NewProfile("child")
	child.ParentID = &base.ID
	child.TabName = &childTab

	set, err := NewProfileSet([]*Profile{base, child})
	if err != nil {
		t.Fatal(err)
	}

	resolved := set.Resolve(child)
	if resolved.Shell == nil || *resolved.Shell != "/bin/zsh" {
		t.Errorf("expected shell inherited from parent, got %v", resolved.Shell)
	}
	if resolved.TabName == nil || *resolved.TabName != "work" {
		t.Errorf("expected child's own tab name preserved, got %v", resolved.TabName)
	}
}

func TestResolveChildFieldWinsOverParent(t *testing.T) {
	parentShell := "/bin/zsh"
	base := NewProfile("base")
	base.Shell = &parentShell

	childShell := "/bin/fish"
	child := NewProfile("child")
	child.ParentID = &base.ID
	child.Shell = &childShell

	set, err := NewProfileSet([]*Profile{base, child})
	if err != nil {
		t.Fatal(err)
	}

	resolved := set.Resolve(child)
	if resolved.Shell == nil || *resolved.Shell != "/bin/fish" {
		t.Errorf("expected child's own shell to win, got %v", resolved.Shell)
	}
}

func TestResolveWalksMultiLevelChain(t *testing.T) {
	grandShell := "/bin/bash"
	grand := NewProfile("grand")
	grand.Shell = &grandShell

	mid := NewProfile("mid")
	mid.ParentID = &grand.ID

	leaf := NewProfile("leaf")
	leaf.ParentID = &mid.ID

	set, err := NewProfileSet([]*Profile{grand, mid, leaf})
	if err != nil {
		t.Fatal(err)
	}

	resolved := set.Resolve(leaf)
	if resolved.Shell == nil || *resolved.Shell != "/bin/bash" {
		t.Errorf("expected shell inherited through two levels, got %v", resolved.Shell)
	}
}
