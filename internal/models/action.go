package models

// ActionKind classifies what was (or would be) done on a host
type ActionKind string

const (
	ActionPlanPackage   ActionKind = "plan-package"
	ActionInstallPkg    ActionKind = "install-package"
	ActionInstallModule ActionKind = "install-module"
	ActionCopyModule    ActionKind = "copy-module"
	ActionResolve       ActionKind = "resolve"
)

// Action records one step against one host
type Action struct {
	Host    string
	Kind    ActionKind
	Target  string
	Version string
	Err     error
}

// Failed returns true if the action did not succeed
func (a Action) Failed() bool {
	return a.Err != nil
}
