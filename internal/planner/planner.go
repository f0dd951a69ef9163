// Package planner decides which fact-gated dependencies apply to which hosts.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

var (
	// ErrInvalidDependency is returned when evaluating a dependency that fails validation
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrInvalidFactConstraint is returned when evaluating a fact constraint that fails validation
	ErrInvalidFactConstraint = errors.New("invalid fact constraint")
)

// FactSource looks up the current value of one fact on one host
type FactSource interface {
	Fact(ctx context.Context, host models.Host, name string) (string, error)
}

// FactSourceFunc adapts a function to FactSource
type FactSourceFunc func(ctx context.Context, host models.Host, name string) (string, error)

// Fact implements FactSource
func (f FactSourceFunc) Fact(ctx context.Context, host models.Host, name string) (string, error) {
	return f(ctx, host, name)
}

// Install is one (host, dependency) pair selected for installation
type Install struct {
	Host       models.Host
	Dependency models.PackageDependency
}

// Planner evaluates fact constraints against hosts
type Planner struct {
	facts FactSource
	log   logr.Logger
}

// Option configures a Planner
type Option func(*Planner)

// WithLogger sets the logger used for plan decisions
func WithLogger(log logr.Logger) Option {
	return func(p *Planner) {
		p.log = log
	}
}

// New creates a Planner reading facts from facts
func New(facts FactSource, opts ...Option) *Planner {
	p := &Planner{
		facts: facts,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MeetsFactConstraint reports whether the host's fact satisfies fc.
// The fact is looked up on every call.
func (p *Planner) MeetsFactConstraint(ctx context.Context, host models.Host, fc models.FactConstraint) (bool, error) {
	if !ValidateFactConstraint(fc) {
		return false, fmt.Errorf("%w: %+v", ErrInvalidFactConstraint, fc)
	}

	value, err := p.facts.Fact(ctx, host, fc.Name)
	if err != nil {
		return false, fmt.Errorf("failed to look up fact %s on %s: %w", fc.Name, host.Name, err)
	}

	switch fc.Operator {
	case models.FactEqual:
		return value == fc.Value.(string), nil
	case models.FactNotEqual:
		return value != fc.Value.(string), nil
	case models.FactIn:
		return contains(fc.Value.([]string), value), nil
	case models.FactNotIn:
		return !contains(fc.Value.([]string), value), nil
	default:
		return false, nil
	}
}

// MeetsDependency reports whether dep applies to host. A dependency
// without facts applies everywhere; otherwise any one satisfied
// constraint is enough.
func (p *Planner) MeetsDependency(ctx context.Context, host models.Host, dep models.PackageDependency) (bool, error) {
	if !ValidateDependency(dep) {
		return false, fmt.Errorf("%w: %+v", ErrInvalidDependency, dep)
	}

	if dep.Facts == nil {
		return true, nil
	}

	for _, fc := range dep.Facts {
		ok, err := p.MeetsFactConstraint(ctx, host, fc)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Plan returns the pairs to install, hosts in the outer loop and
// dependencies in the inner loop, both in input order.
func (p *Planner) Plan(ctx context.Context, hosts []models.Host, deps []models.PackageDependency) ([]Install, error) {
	var installs []Install

	for _, host := range hosts {
		for _, dep := range deps {
			ok, err := p.MeetsDependency(ctx, host, dep)
			if err != nil {
				return nil, fmt.Errorf("failed to plan %s on %s: %w", dep, host.Name, err)
			}
			if !ok {
				p.log.V(1).Info("skipping dependency", "host", host.Name, "dependency", dep.String())
				continue
			}
			installs = append(installs, Install{Host: host, Dependency: dep})
		}
	}

	return installs, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
