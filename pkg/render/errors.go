package render

import (
	"errors"
	"fmt"
)

// Reasons carried by ConfigurationError.
const (
	ReasonSingleChild  = "single_child"
	ReasonRequiredProp = "required_prop"
)

// ErrConfiguration matches every ConfigurationError through errors.Is.
var ErrConfiguration = errors.New("render: configuration error")

// ConfigurationError is a development-time contract violation: a wrapper
// received zero or several children, or a required prop is missing. It aborts
// rendering of the subtree and is never retried.
type ConfigurationError struct {
	Component string
	Reason    string
	Prop      string
	Count     int
}

func (e *ConfigurationError) Error() string {
	switch e.Reason {
	case ReasonRequiredProp:
		return fmt.Sprintf("<%s> requires the %q prop", e.Component, e.Prop)
	default:
		return fmt.Sprintf("<%s> only accepts a single child", e.Component)
	}
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// RequireProp returns a ConfigurationError when value is empty.
func RequireProp(component, prop, value string) error {
	if value != "" {
		return nil
	}
	return &ConfigurationError{
		Component: component,
		Reason:    ReasonRequiredProp,
		Prop:      prop,
	}
}
