// Package domain holds the task tracker's entities and the pure rules that
// govern them: the access policy, the overdue evaluator, and the task
// mutation rules. Nothing here touches storage or transport.
package domain
