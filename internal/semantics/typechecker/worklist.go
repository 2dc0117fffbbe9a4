package typechecker

import (
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

// bodyTask is a procedure body waiting to be checked once every signature
// it can reach is known.
type bodyTask struct {
	entity *symbols.Entity
	sig    *types.Proc
	scope  *table.Scope
	body   *ast.Block
}

// worklist is a FIFO of pending bodies. Checking one body may push more.
type worklist struct {
	tasks []bodyTask
	done  int
}

func (w *worklist) push(t bodyTask) { w.tasks = append(w.tasks, t) }

func (w *worklist) pop() (bodyTask, bool) {
	if len(w.tasks) == 0 {
		return bodyTask{}, false
	}
	t := w.tasks[0]
	w.tasks[0] = bodyTask{}
	w.tasks = w.tasks[1:]
	w.done++
	return t, true
}

func (w *worklist) Len() int { return len(w.tasks) }

func (c *Checker) queueBody(e *symbols.Entity, sig *types.Proc, scope *table.Scope, body *ast.Block) {
	if body == nil {
		return
	}
	c.queue.push(bodyTask{entity: e, sig: sig, scope: scope, body: body})
	c.log.Debug("body queued", "proc", e.Name, "pending", c.queue.Len())
}

// Drain checks queued procedure bodies until none remain.
func (c *Checker) Drain() {
	for {
		task, ok := c.queue.pop()
		if !ok {
			break
		}
		c.log.Debug("checking body", "proc", task.entity.Name, "pending", c.queue.Len())
		c.checkBody(task)
	}
	c.log.Debug("worklist drained", "bodies", c.queue.done)
}
