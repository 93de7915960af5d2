package hook

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the specified hook type with the given context.
//
// Scripts see the variables source, destination, stage, failed and errorMessage, plus
// every entry of ctx.Vars. A script fails the hook by assigning a non-empty
// string, true or an error value to a top-level variable named err.
// Runtime faults inside the VM are reported as ErrHookExecution.
func (e *TengoExecutor) Execute(hookType HookType, ctx HookContext) (err error) {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = errutils.Wrapf(ErrHookExecution, "%s: %v", hookType, r)
		}
	}()

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "text", "time"))

	_ = scriptInstance.Add("source", ctx.Source)
	_ = scriptInstance.Add("destination", ctx.Destination)
	_ = scriptInstance.Add("stage", string(hookType))
	_ = scriptInstance.Add("failed", ctx.Failed)
	_ = scriptInstance.Add("errorMessage", ctx.Error)
	for k, v := range ctx.Vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return errutils.Wrapf(ErrHookExecution, "%s: variable %s: %v", hookType, k, err)
		}
	}

	compiled, err := scriptInstance.Run()
	if err != nil {
		return errutils.Wrapf(ErrHookExecution, "%s: %v", hookType, err)
	}

	switch v := compiled.Get("err").Value().(type) {
	case nil:
	case error:
		return fmt.Errorf("%w: %s: %s", ErrHookScript, hookType, v.Error())
	case string:
		if v != "" {
			return fmt.Errorf("%w: %s: %s", ErrHookScript, hookType, v)
		}
	case bool:
		if v {
			return fmt.Errorf("%w: %s", ErrHookScript, hookType)
		}
	default:
		return fmt.Errorf("%w: %s: %v", ErrHookScript, hookType, v)
	}

	return nil
}

// AddScript adds or updates a script for the specified hook type.
func (e *TengoExecutor) AddScript(hookType HookType, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// RemoveScript removes the script for the specified hook type.
func (e *TengoExecutor) RemoveScript(hookType HookType) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
}

// HasScript checks if a script exists for the specified hook type.
func (e *TengoExecutor) HasScript(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
