package passes

import (
	"fmt"
	"strings"

	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/ir"
)

// ResolveClassPass sets the class of every class-less, parent-less
// definition to its id.
type ResolveClassPass struct{}

func (ResolveClassPass) Name() string { return "resolve_class" }

func (ResolveClassPass) Process(b *container.Builder) error {
	for _, d := range b.Definitions() {
		if d.Class == "" && d.Parent == "" {
			d.Class = d.ID
		}
	}
	return nil
}

// ResolveParentPass merges child definitions with their parent chain.
//
// A child keeps its own class when set. Arguments are inherited
// positionally: a non-null child argument replaces the parent's at the same
// index and extra child arguments are appended. Method calls and tags are
// the parent's followed by the child's. Public and abstract always come
// from the child. Parent is cleared once resolved.
type ResolveParentPass struct{}

func (ResolveParentPass) Name() string { return "resolve_parent" }

func (ResolveParentPass) Process(b *container.Builder) error {
	resolved := make(map[string]bool)
	for _, d := range b.Definitions() {
		if err := resolveParent(b, d, resolved, nil); err != nil {
			return err
		}
	}
	return nil
}

func resolveParent(b *container.Builder, d *container.Definition, resolved map[string]bool, chain []string) error {
	if d.Parent == "" || resolved[d.ID] {
		return nil
	}
	for _, id := range chain {
		if id == d.ID {
			return fmt.Errorf("circular parent reference: %s -> %s", strings.Join(chain, " -> "), d.ID)
		}
	}

	parent, err := b.Definition(d.Parent)
	if err != nil {
		return &container.UnknownServiceError{ID: d.Parent, ReferencedBy: d.ID}
	}
	if err := resolveParent(b, parent, resolved, append(chain, d.ID)); err != nil {
		return err
	}

	if d.Class == "" {
		d.Class = parent.Class
	}
	args := parent.Clone().Arguments
	for i, v := range d.Arguments {
		if i < len(args) {
			if _, isNull := v.(ir.IRNull); isNull {
				continue
			}
			args[i] = v
			continue
		}
		args = append(args, v)
	}
	d.Arguments = args

	inherited := parent.Clone()
	d.MethodCalls = append(inherited.MethodCalls, d.MethodCalls...)
	d.Tags = append(inherited.Tags, d.Tags...)
	d.Parent = ""
	resolved[d.ID] = true
	return nil
}

// RemoveAbstractPass drops abstract definitions.
type RemoveAbstractPass struct{}

func (RemoveAbstractPass) Name() string { return "remove_abstract" }

func (RemoveAbstractPass) Process(b *container.Builder) error {
	for _, d := range b.Definitions() {
		if d.Abstract {
			b.RemoveDefinition(d.ID)
		}
	}
	return nil
}

// CheckReferencesPass fails on the first reference to an undefined service,
// in arguments or method call arguments.
type CheckReferencesPass struct{}

func (CheckReferencesPass) Name() string { return "check_references" }

func (CheckReferencesPass) Process(b *container.Builder) error {
	for _, d := range b.Definitions() {
		refs := ir.References(d.Arguments)
		for _, call := range d.MethodCalls {
			refs = append(refs, ir.References(call.Arguments)...)
		}
		for _, ref := range refs {
			if !b.HasDefinition(ref.ID) {
				return &container.UnknownServiceError{ID: ref.ID, ReferencedBy: d.ID}
			}
		}
	}
	return nil
}
