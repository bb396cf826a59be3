package service

import (
	"fmt"
	"sort"
	"sync"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

type ToolRegistryImpl struct {
	tools map[entity.ToolName]output.ToolPort
}

func NewToolRegistry(tools ...output.ToolPort) *ToolRegistryImpl {
	r := &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

// Register replaces any tool already registered under the same name.
func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	r.tools[tool.Describe().Name] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Descriptors() []entity.ToolDescriptor {
	result := make([]entity.ToolDescriptor, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		result = append(result, r.tools[name].Describe())
	}
	return result
}

func (r *ToolRegistryImpl) sortedNames() []entity.ToolName {
	names := make([]entity.ToolName, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}

var _ output.ProviderRegistry = (*ProviderRegistryImpl)(nil)

type providerSlot struct {
	once    sync.Once
	factory output.LLMFactory
	llm     output.LLMPort
	err     error
}

// ProviderRegistryImpl builds each provider on first use and keeps it for later runs.
type ProviderRegistryImpl struct {
	mu    sync.RWMutex
	slots map[entity.ProviderName]*providerSlot
}

func NewProviderRegistry() *ProviderRegistryImpl {
	return &ProviderRegistryImpl{
		slots: make(map[entity.ProviderName]*providerSlot),
	}
}

func (r *ProviderRegistryImpl) Register(name entity.ProviderName, factory output.LLMFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[name] = &providerSlot{factory: factory}
}

func (r *ProviderRegistryImpl) Resolve(name entity.ProviderName) (output.LLMPort, error) {
	r.mu.RLock()
	slot, ok := r.slots[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: provider %q is not registered", entity.ErrConfiguration, name)
	}

	slot.once.Do(func() {
		slot.llm, slot.err = slot.factory()
		if slot.err == nil && slot.llm == nil {
			slot.err = fmt.Errorf("%w: provider %q factory returned nil", entity.ErrConfiguration, name)
		}
	})
	if slot.err != nil {
		return nil, slot.err
	}
	return slot.llm, nil
}
