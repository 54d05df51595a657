// Package timerqueue keeps timer-like nodes ordered by expiration.
//
// A Head reports its earliest node in constant time and adds or removes any
// node in logarithmic time. Nodes with equal expirations are kept in the order
// they were added. Add and Del report whether the earliest node changed, so a
// caller only reprograms its own expiry trigger when needed:
//
//	h := timerqueue.NewHead[int64, *myTimer]()
//	n := timerqueue.NewNode(deadline, t)
//	if h.Add(n) {
//		rearm(h.GetNext().Expires())
//	}
//
// Nodes are owned by the caller and carry their own link, the queue never
// allocates. Misuse, such as adding a queued node or deleting a node from a
// head it is not queued in, panics.
package timerqueue
