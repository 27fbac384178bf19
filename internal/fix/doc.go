// Package fix merges the sentences of one receiver cycle into a fix and
// classifies it.
//
// Aggregation is a pure function of the cycle and an explicit State; the
// caller owns the State and threads it from one cycle to the next:
//
//	st := fix.NewState()
//	for sentences := range cycles {
//		var res fix.Result
//		st, res = fix.Classify(st, fix.Collect(sentences), bounds, false)
//		render(res)
//	}
package fix
