package workflow

// StepDefinition describes one approval stage of a workflow. A step is
// satisfied by either an explicit permission grant or role membership
// (OR semantics, see HasStepPermission).
type StepDefinition struct {
	Key                string   `json:"key"`
	Label              string   `json:"label"`
	RequiredPermission string   `json:"required_permission"`
	AllowedRoles       []string `json:"allowed_roles"`
}

// Definition is a static, strictly ordered list of steps. Step order is the
// sole source of "next step" and "previous steps" semantics; there is no
// branching and no parallel steps.
type Definition struct {
	Type  string
	Steps []StepDefinition
}

// FirstStep returns the initial step of the workflow
func (d *Definition) FirstStep() (StepDefinition, bool) {
	if len(d.Steps) == 0 {
		return StepDefinition{}, false
	}
	return d.Steps[0], true
}

// StepByKey returns the step definition with the given key
func (d *Definition) StepByKey(key string) (StepDefinition, bool) {
	for _, s := range d.Steps {
		if s.Key == key {
			return s, true
		}
	}
	return StepDefinition{}, false
}

// StepOrder returns the 1-based position of the step within the workflow,
// or 0 if the key is not part of the definition.
func (d *Definition) StepOrder(key string) int {
	for i, s := range d.Steps {
		if s.Key == key {
			return i + 1
		}
	}
	return 0
}

// NextStep returns the step that follows the given key, if any
func (d *Definition) NextStep(key string) (StepDefinition, bool) {
	order := d.StepOrder(key)
	if order == 0 || order >= len(d.Steps) {
		return StepDefinition{}, false
	}
	return d.Steps[order], true
}
