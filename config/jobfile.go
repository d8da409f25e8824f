package config

import (
	"fmt"
	"os"

	"github.com/sarchlab/snapsim/snap"
	"gopkg.in/yaml.v3"
)

// JobFile describes a job to run from the command line.
type JobFile struct {
	Name    string    `yaml:"name"`
	Mode    string    `yaml:"mode"`
	InType  string    `yaml:"in_type"`
	OutType string    `yaml:"out_type"`
	Input   []float64 `yaml:"input"`
}

// BufferTypes resolves the address type tags of the input and output
// buffers.
func (jf *JobFile) BufferTypes() (BufferTypes, error) {
	in, err := snap.ParseAddrType(jf.InType)
	if err != nil {
		return BufferTypes{}, fmt.Errorf("in_type: %w", err)
	}

	out, err := snap.ParseAddrType(jf.OutType)
	if err != nil {
		return BufferTypes{}, fmt.Errorf("out_type: %w", err)
	}

	return BufferTypes{In: in, Out: out}, nil
}

// ParseJobFile parses YAML content into a JobFile.
func ParseJobFile(data []byte) (*JobFile, error) {
	var jf JobFile

	err := yaml.Unmarshal(data, &jf)
	if err != nil {
		return nil, err
	}

	if jf.Name == "" {
		jf.Name = "job"
	}

	return &jf, nil
}

// LoadJobFile reads a job file from disk.
func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	jf, err := ParseJobFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return jf, nil
}
