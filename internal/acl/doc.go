// Package acl implements the rule parser and evaluator that turn a user's
// ordered glob rule file into the resolved set of secret paths that user may
// read. Rules are evaluated last-match-wins against the path catalog
// produced by package vault, with a fixed implicit tail appended after every
// user's own rules to enforce per-user namespace isolation.
package acl
