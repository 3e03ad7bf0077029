package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCells     = 5
	DefaultLength    = 1.0
	DefaultRho       = 1.0
	DefaultC         = 1.0
	DefaultNev       = 10
	DefaultTolerance = 1e-8
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name   string       `yaml:"name" json:"name"`
	Mesh   MeshConfig   `yaml:"mesh" json:"mesh"`
	Medium MediumConfig `yaml:"medium" json:"medium"`
	Solver SolverConfig `yaml:"solver" json:"solver"`
	Target Complex      `yaml:"target" json:"target"`
}

type MeshConfig struct {
	Cells  int     `yaml:"cells" json:"cells"`
	Length float64 `yaml:"length" json:"length"`
}

type MediumConfig struct {
	Rho     float64 `yaml:"rho" json:"rho"`
	C       float64 `yaml:"c" json:"c"`
	Damping float64 `yaml:"damping" json:"damping"`
}

type SolverConfig struct {
	Nev       int     `yaml:"nev" json:"nev"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	Shift     Complex `yaml:"shift" json:"shift"`
}

// Complex is a YAML friendly complex number.
type Complex struct {
	Re float64 `yaml:"re" json:"re"`
	Im float64 `yaml:"im" json:"im"`
}

func (c Complex) Value() complex128 { return complex(c.Re, c.Im) }

func FromComplex(z complex128) Complex { return Complex{Re: real(z), Im: imag(z)} }

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Mesh: MeshConfig{
			Cells:  DefaultCells,
			Length: DefaultLength,
		},
		Medium: MediumConfig{
			Rho: DefaultRho,
			C:   DefaultC,
		},
		Solver: SolverConfig{
			Nev:       DefaultNev,
			Tolerance: DefaultTolerance,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Mesh.Cells < 1:
		return fmt.Errorf("%w: mesh.cells must be >= 1, got %d", ErrInvalidConfig, c.Mesh.Cells)
	case !(c.Mesh.Length > 0):
		return fmt.Errorf("%w: mesh.length must be > 0, got %g", ErrInvalidConfig, c.Mesh.Length)
	case !(c.Medium.Rho > 0):
		return fmt.Errorf("%w: medium.rho must be > 0, got %g", ErrInvalidConfig, c.Medium.Rho)
	case !(c.Medium.C > 0):
		return fmt.Errorf("%w: medium.c must be > 0, got %g", ErrInvalidConfig, c.Medium.C)
	case !(c.Medium.Damping >= 0):
		return fmt.Errorf("%w: medium.damping must be >= 0, got %g", ErrInvalidConfig, c.Medium.Damping)
	case c.Solver.Nev < 0:
		return fmt.Errorf("%w: solver.nev must be >= 0, got %d", ErrInvalidConfig, c.Solver.Nev)
	case !(c.Solver.Tolerance > 0):
		return fmt.Errorf("%w: solver.tolerance must be > 0, got %g", ErrInvalidConfig, c.Solver.Tolerance)
	}
	return nil
}
