package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

// Handler executes one validated tool call. Handlers must be safe to retry:
// the dispatcher may invoke them again after a transient failure.
type Handler func(ctx context.Context, sess *statex.Session, args map[string]any) (contractx.ToolResult, error)

// Field declares one parameter of a tool schema. Positive marks numeric
// fields whose domain is strictly greater than zero.
type Field struct {
	Type     schema.DataType
	Desc     string
	Required bool
	Positive bool
}

// Definition binds a tool name to its parameter schema and handler.
type Definition struct {
	Name    string
	Desc    string
	Fields  map[string]Field
	Handler Handler
}

// Registry maps tool names to definitions. Registration happens at startup;
// the registry is read-only afterwards, so lookups take no lock.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: tool=%s has no handler", contractx.ErrValidation, name)
	}
	if _, ok := r.defs[name]; ok {
		return fmt.Errorf("%w: tool=%s", contractx.ErrDuplicateTool, name)
	}
	def.Name = name
	r.defs[name] = def
	return nil
}

func (r *Registry) MustRegister(defs ...Definition) *Registry {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Resolve(name string) (Definition, error) {
	def, ok := r.defs[strings.TrimSpace(name)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: tool=%s", contractx.ErrUnknownTool, name)
	}
	return def, nil
}

// Infos renders the registry as tool schemas for the capability call,
// in stable name order.
func (r *Registry) Infos() []*schema.ToolInfo {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		def := r.defs[name]
		params := make(map[string]*schema.ParameterInfo, len(def.Fields))
		for fieldName, field := range def.Fields {
			params[fieldName] = &schema.ParameterInfo{
				Type:     field.Type,
				Desc:     field.Desc,
				Required: field.Required,
			}
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        def.Name,
			Desc:        def.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}
