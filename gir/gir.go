// Package gir is the read-only type catalog the analysis consults: the
// target toolkit's namespaces, classes, properties, signals, and
// enumerations. Loading this catalog from introspection data is the
// host's job; this package only defines the queryable model.
package gir

import (
	"github.com/Masterminds/semver/v3"
)

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeBool
	TypeString
	TypeNumber
	TypeEnum
	TypeObject
	TypeExpression
)

// TypeRef classifies a property's value kind. Enum carries the bounded
// member list when Kind is TypeEnum.
type TypeRef struct {
	Kind TypeKind
	Name string
	Enum *Enumeration
}

type EnumMember struct {
	Name   string
	Doc    string
	Detail string
}

type Enumeration struct {
	Name    string
	Members []EnumMember
}

func (e *Enumeration) Member(name string) *EnumMember {
	for i := range e.Members {
		if e.Members[i].Name == name {
			return &e.Members[i]
		}
	}
	return nil
}

type Property struct {
	Name         string
	Type         TypeRef
	Doc          string
	Detail       string
	Translatable bool
}

type Signal struct {
	Name   string
	Doc    string
	Detail string
}

type Class struct {
	Name      string
	Namespace *Namespace
	Parent    *Class
	Abstract  bool
	Doc       string
	Detail    string

	properties map[string]*Property
	propOrder  []string
	signals    map[string]*Signal
	sigOrder   []string
}

// FullName is the namespaced display name, e.g. "Gtk.Box".
func (c *Class) FullName() string {
	return c.Namespace.Name + "." + c.Name
}

// GLibName is the concatenated runtime type name, e.g. "GtkBox".
func (c *Class) GLibName() string {
	return c.Namespace.Name + c.Name
}

// Property resolves a property by name, walking the parent chain.
func (c *Class) Property(name string) *Property {
	for cls := c; cls != nil; cls = cls.Parent {
		if p, ok := cls.properties[name]; ok {
			return p
		}
	}
	return nil
}

// Signal resolves a signal by name, walking the parent chain.
func (c *Class) Signal(name string) *Signal {
	for cls := c; cls != nil; cls = cls.Parent {
		if s, ok := cls.signals[name]; ok {
			return s
		}
	}
	return nil
}

// Properties lists own and inherited properties in declaration order,
// nearest class first. Shadowed names appear once.
func (c *Class) Properties() []*Property {
	var result []*Property
	seen := map[string]bool{}
	for cls := c; cls != nil; cls = cls.Parent {
		for _, name := range cls.propOrder {
			if !seen[name] {
				seen[name] = true
				result = append(result, cls.properties[name])
			}
		}
	}
	return result
}

// Signals lists own and inherited signals in declaration order.
func (c *Class) Signals() []*Signal {
	var result []*Signal
	seen := map[string]bool{}
	for cls := c; cls != nil; cls = cls.Parent {
		for _, name := range cls.sigOrder {
			if !seen[name] {
				seen[name] = true
				result = append(result, cls.signals[name])
			}
		}
	}
	return result
}

// IsSubclassOf reports whether the class is, or derives from, the named
// class.
func (c *Class) IsSubclassOf(namespace, name string) bool {
	for cls := c; cls != nil; cls = cls.Parent {
		if cls.Namespace.Name == namespace && cls.Name == name {
			return true
		}
	}
	return false
}

func (c *Class) AddProperty(p *Property) *Class {
	c.properties[p.Name] = p
	c.propOrder = append(c.propOrder, p.Name)
	return c
}

func (c *Class) AddSignal(s *Signal) *Class {
	c.signals[s.Name] = s
	c.sigOrder = append(c.sigOrder, s.Name)
	return c
}

type Namespace struct {
	Name    string
	Version string

	classes    map[string]*Class
	classOrder []string
}

func (ns *Namespace) Class(name string) *Class {
	return ns.classes[name]
}

func (ns *Namespace) Classes() []*Class {
	result := make([]*Class, 0, len(ns.classOrder))
	for _, name := range ns.classOrder {
		result = append(result, ns.classes[name])
	}
	return result
}

func (ns *Namespace) AddClass(name string, parent *Class) *Class {
	c := &Class{
		Name:       name,
		Namespace:  ns,
		Parent:     parent,
		properties: map[string]*Property{},
		signals:    map[string]*Signal{},
	}
	ns.classes[name] = c
	ns.classOrder = append(ns.classOrder, name)
	return c
}

// SatisfiesVersion reports whether the loaded namespace version is
// compatible with the version a document requests, e.g. a "using Gtk
// 4.0;" directive against a loaded Gtk 4.12. Compatibility means same
// major version, at least the requested minor.
func (ns *Namespace) SatisfiesVersion(requested string) bool {
	constraint, err := semver.NewConstraint("^" + requested)
	if err != nil {
		return false
	}
	loaded, err := semver.NewVersion(ns.Version)
	if err != nil {
		return false
	}
	return constraint.Check(loaded)
}

// Repository is the root of the catalog. It is populated once by the
// host's loader and never mutated afterwards, so it may be shared across
// concurrently analyzed documents without locking.
type Repository struct {
	namespaces map[string]*Namespace
	nsOrder    []string
}

func NewRepository() *Repository {
	return &Repository{namespaces: map[string]*Namespace{}}
}

func (r *Repository) Namespace(name string) *Namespace {
	if r == nil {
		return nil
	}
	return r.namespaces[name]
}

func (r *Repository) Namespaces() []*Namespace {
	result := make([]*Namespace, 0, len(r.nsOrder))
	for _, name := range r.nsOrder {
		result = append(result, r.namespaces[name])
	}
	return result
}

func (r *Repository) AddNamespace(name, version string) *Namespace {
	ns := &Namespace{Name: name, Version: version, classes: map[string]*Class{}}
	r.namespaces[name] = ns
	r.nsOrder = append(r.nsOrder, name)
	return ns
}
