// Package config defines the format-agnostic engine settings model and the
// Loader interface for reading it. The concrete HCL implementation lives in
// the hcl package; one-shot environment settings are parsed here.
package config
