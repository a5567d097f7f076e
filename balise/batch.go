package balise

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// StartBatch opens a batch scope. The outermost call allocates a fresh
// pending set; nested calls are transparent.
func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
	if rs.batchDepth == 1 {
		rs.pendingKeys = mapset.NewThreadUnsafeSet[any]()
		rs.pendingRuns = nil
	}
}

// EndBatch closes a batch scope. When the outermost scope closes, the
// pending notifications drain in first-enqueued order, each exactly once.
func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth != 0 {
		return
	}
	runs := rs.pendingRuns
	rs.pendingRuns = nil
	rs.pendingKeys = nil
	for _, run := range runs {
		run()
	}
}

func (rs *ReactiveSystem) Batch(cb func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	cb()
}

// schedule runs immediately outside a batch; inside one it enqueues run at
// most once per key, no matter how often the key is scheduled.
func (rs *ReactiveSystem) schedule(key any, run func()) {
	if rs.batchDepth == 0 {
		run()
		return
	}
	if rs.pendingKeys.Add(key) {
		rs.pendingRuns = append(rs.pendingRuns, run)
	}
}
