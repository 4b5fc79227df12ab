/*
Package session serialises the turns of each conversation and keeps its
history in a ports.HistoryStore.

The dispatcher only reads history. Hosts go through the Manager so that two
requests of the same session never interleave, locally or, with a
ports.SessionLocker, across replicas.
*/
package session
