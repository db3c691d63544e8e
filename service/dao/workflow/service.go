// Package workflow loads workflow graphs from YAML or JSON documents.
package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/viant/hireflow/internal/yml"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/service/meta"
	"gopkg.in/yaml.v3"
)

// Service decodes workflow documents. Keys are matched case-insensitively;
// "type" is accepted for "cardType" and "handle" for "sourceHandle".
type Service struct {
	metaService *meta.Service
	defaultExt  string
}

// Load loads and validates a workflow document at URL
func (s *Service) Load(ctx context.Context, URL string) (*model.Workflow, error) {
	if filepath.Ext(URL) == "" {
		URL += s.defaultExt
	}
	var node yaml.Node
	if err := s.metaService.Load(ctx, URL, &node); err != nil {
		return nil, fmt.Errorf("failed to load workflow from %s: %w", URL, err)
	}
	return s.ParseWorkflow(URL, &node)
}

// Decode decodes a workflow from YAML or JSON
func (s *Service) Decode(encoded []byte) (*model.Workflow, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(meta.ExpandEnv(string(encoded))), &node); err != nil {
		return nil, err
	}
	return s.ParseWorkflow("", &node)
}

// ParseWorkflow converts a document node into a validated workflow
func (s *Service) ParseWorkflow(URL string, node *yaml.Node) (*model.Workflow, error) {
	workflow := &model.Workflow{Name: nameFromURL(URL)}
	if URL != "" {
		workflow.Source = &model.Source{URL: URL}
	}
	if err := parseWorkflow((*yml.Node)(node).Root(), workflow); err != nil {
		return nil, fmt.Errorf("failed to parse workflow %s: %w", URL, err)
	}
	if workflow.Name == "" {
		workflow.Name = anonymousName()
	}
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return workflow, nil
}

func parseWorkflow(node *yml.Node, workflow *model.Workflow) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping, got %v", kindName(node.Kind))
	}
	return node.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			workflow.ID = value.String()
		case "name":
			if value.String() != "" {
				workflow.Name = value.String()
			}
		case "description":
			workflow.Description = value.String()
		case "version":
			workflow.Version = value.String()
		case "nodes":
			return value.Items(func(index int, item *yml.Node) error {
				aNode, err := parseNode(index, item)
				if err != nil {
					return err
				}
				workflow.Nodes = append(workflow.Nodes, aNode)
				return nil
			})
		case "edges":
			return value.Items(func(index int, item *yml.Node) error {
				edge, err := parseEdge(index, item)
				if err != nil {
					return err
				}
				workflow.Edges = append(workflow.Edges, edge)
				return nil
			})
		}
		return nil
	})
}

func parseNode(index int, node *yml.Node) (*graph.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("node #%d: expected mapping, got %v", index, kindName(node.Kind))
	}
	ret := &graph.Node{Data: map[string]interface{}{}}
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			ret.ID = value.String()
		case "cardtype", "type":
			ret.CardType = graph.CardType(value.String()).Normalize()
		case "label", "name":
			ret.Label = value.String()
		case "data", "config":
			data, ok := value.Interface().(map[string]interface{})
			if !ok && value.Kind != yaml.ScalarNode {
				return fmt.Errorf("node %v: data must be a mapping", ret.ID)
			}
			for k, v := range data {
				ret.Data[k] = v
			}
		}
		return nil
	})
	return ret, err
}

func parseEdge(index int, node *yml.Node) (*graph.Edge, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("edge #%d: expected mapping, got %v", index, kindName(node.Kind))
	}
	ret := &graph.Edge{}
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			ret.ID = value.String()
		case "source", "from":
			ret.Source = value.String()
		case "target", "to":
			ret.Target = value.String()
		case "sourcehandle", "handle":
			ret.SourceHandle = strings.ToLower(value.String())
		}
		return nil
	})
	if ret.ID == "" {
		ret.ID = fmt.Sprintf("e%d-%s-%s", index+1, ret.Source, ret.Target)
	}
	return ret, err
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	}
	return "document"
}

func nameFromURL(URL string) string {
	if URL == "" {
		return ""
	}
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var counter int32

func anonymousName() string {
	return fmt.Sprintf("anonymous-%d", atomic.AddInt32(&counter, 1))
}

// New creates a workflow loader
func New(opts ...Option) *Service {
	ret := &Service{defaultExt: ".yaml"}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.metaService == nil {
		ret.metaService = meta.New(nil, "")
	}
	return ret
}
