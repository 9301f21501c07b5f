// Package ontology defines the externally authored definitions that drive
// the kernel: actions with their parameters, validation and effect rules,
// keyword intent patterns, and the entity synonym table.
//
// Definitions are loaded once, validated, and frozen into registries. A
// reload builds a new registry value; nothing is mutated in place, so
// concurrent readers never need locks.
package ontology
