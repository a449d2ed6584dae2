// Package spectrum selects contiguous blocks of spectrum slot indices.
// Allocators are pure: they read a candidate set of free slot indices that
// already satisfies the continuity constraint and never mutate state.
package spectrum

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Allocator picks n consecutive slot indices out of candidates.
// An infeasible request returns nil; that is a normal outcome, not an error.
type Allocator interface {
	Select(n int, candidates []int) []int
}

// Policy names accepted by NewAllocator.
const (
	PolicyFirstFit = "first-fit"
	PolicyBestGap  = "best-gap"
)

// validPolicies is shared by IsValidPolicy and NewAllocator.
var validPolicies = map[string]bool{"": true, PolicyFirstFit: true, PolicyBestGap: true}

// IsValidPolicy returns true if name is a recognized allocation policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// PolicyNames returns the named policies in display order.
func PolicyNames() []string {
	return []string{PolicyFirstFit, PolicyBestGap}
}

// NewAllocator creates an Allocator by name.
// Empty string defaults to first-fit. Panics on unrecognized names.
func NewAllocator(name string) Allocator {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown allocation policy %q", name))
	}
	switch name {
	case "", PolicyFirstFit:
		return &FirstFit{}
	case PolicyBestGap:
		return &BestGap{}
	default:
		panic(fmt.Sprintf("unhandled allocation policy %q", name))
	}
}

// FirstFit returns the lowest-indexed window of n consecutive candidates.
type FirstFit struct{}

func (f *FirstFit) Select(n int, candidates []int) []int {
	sorted := normalize(candidates)
	if n <= 0 || len(sorted) < n {
		return nil
	}
	for i := 0; i+n <= len(sorted); i++ {
		// sorted and deduplicated: the window is consecutive iff its span is n-1
		if sorted[i+n-1]-sorted[i] == n-1 {
			return slices.Clone(sorted[i : i+n])
		}
	}
	return nil
}

// BestGap partitions the candidates into maximal runs and picks the first run
// whose length is exactly n. If none exists, the required length is relaxed
// by one until a run matches or the longest run is passed. The selected
// block is the first n indices of the matched run.
type BestGap struct{}

func (b *BestGap) Select(n int, candidates []int) []int {
	run := b.Run(n, candidates)
	if run == nil {
		return nil
	}
	return slices.Clone(run[:n])
}

// Run returns the full run chosen by the relaxed exact-size search. Its
// length may exceed n when no run of exactly n slots is free.
func (b *BestGap) Run(n int, candidates []int) []int {
	if n <= 0 {
		return nil
	}
	var fit [][]int
	longest := 0
	for _, r := range Runs(candidates) {
		if len(r) >= n {
			fit = append(fit, r)
			longest = max(longest, len(r))
		}
	}
	for size := n; size <= longest; size++ {
		for _, r := range fit {
			if len(r) == size {
				return r
			}
		}
	}
	return nil
}

// Runs splits candidates into maximal runs of consecutive integers, in
// ascending order of their first index.
func Runs(candidates []int) [][]int {
	sorted := normalize(candidates)
	var runs [][]int
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i] != sorted[i-1]+1 {
			runs = append(runs, sorted[start:i])
			start = i
		}
	}
	return runs
}

// normalize returns a sorted, deduplicated copy of candidates.
func normalize(candidates []int) []int {
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
