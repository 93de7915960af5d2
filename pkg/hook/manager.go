package hook

import (
	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/download"
)

// DefaultHookManager is the default implementation of HookManager.
type DefaultHookManager struct {
	executor *TengoExecutor
}

var _ HookManager = (*DefaultHookManager)(nil)

// NewHookManager creates a new hook manager.
func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the specified hook type with the given context.
func (m *DefaultHookManager) Execute(hookType HookType, ctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}

	// Copy the vars so scripts cannot observe each other's additions
	ctxCopy := ctx
	ctxCopy.Vars = make(map[string]interface{}, len(ctx.Vars))
	for k, v := range ctx.Vars {
		ctxCopy.Vars[k] = v
	}

	return m.executor.Execute(hookType, ctxCopy)
}

// AddHook adds a new hook.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	if !hook.Type.Valid() {
		return ErrUnsupportedHookEvent(string(hook.Type))
	}

	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// RemoveHook removes a hook of the specified type.
func (m *DefaultHookManager) RemoveHook(hookType HookType) error {
	if hookType == "" {
		return ErrHookTypeEmpty
	}

	m.executor.RemoveScript(hookType)
	return nil
}

// HasHook checks if a hook of the specified type exists.
func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	return m.executor.HasScript(hookType)
}

// Completion adapts the hook of hookType to a download completion callback.
// The stage result is exposed to the script; a failing script fails the stage.
// Without a registered hook the callback is a no-op.
func (m *DefaultHookManager) Completion(hookType HookType, ctx HookContext) download.CompletionFunc {
	if !m.HasHook(hookType) {
		return download.NoopCompletion
	}
	return func(stageErr error) error {
		c := ctx
		if stageErr != nil {
			c.Failed = true
			c.Error = stageErr.Error()
		}
		err := m.Execute(hookType, c)
		if err != nil {
			logger.Warn("Completion hook failed", logger.Fields{"hook": string(hookType), "source": ctx.Source, "error": err})
		}
		return err
	}
}

// Hooks returns download hooks whose completion callbacks run the registered scripts.
// Progress callbacks are taken from progress.
func (m *DefaultHookManager) Hooks(ctx HookContext, progress download.Hooks) download.Hooks {
	progress.DownloadComplete = m.Completion(DownloadComplete, ctx)
	progress.DecompressComplete = m.Completion(DecompressComplete, ctx)
	return progress
}
