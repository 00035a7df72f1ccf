package solver

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/chargeplan/core/milp"
)

// coverOption lets a group be served through an assignment variable once its
// site is built.
type coverOption struct {
	site   int // position in coverageModel.sites
	assign int
	weight float64
}

// coverageModel is a binary program recognised as budgeted maximum coverage:
// build variables x_i, assignment variables z linked by z - x_i <= 0, groups
// of assignments with Σ z <= 1, at most one knapsack row and one cardinality
// row over the build variables, and objective weight on assignments only.
type coverageModel struct {
	m        *milp.Model
	sites    []int     // build variable per site
	cost     []float64 // knapsack coefficient per site
	budget   float64   // +Inf without a knapsack row
	minCount int
	groups   [][]coverOption
	bySite   [][]siteOption
}

type siteOption struct {
	group  int
	weight float64
}

const unlinked = -1

// detectCoverage reports whether m has the coverage structure and returns it.
// Any row or objective term outside that structure makes it return false.
func detectCoverage(m *milp.Model, tol float64) (*coverageModel, bool) {
	if m.Sense != milp.Maximize {
		return nil, false
	}
	n := m.NumVars()
	obj := make([]float64, n)
	for _, t := range m.Objective {
		obj[t.Var] += t.Coef
	}
	rows := make([]map[int]float64, len(m.Constraints))
	for k, c := range m.Constraints {
		r := make(map[int]float64, len(c.Terms))
		for _, t := range c.Terms {
			r[t.Var] += t.Coef
		}
		for v, a := range r {
			if a == 0 {
				delete(r, v)
			}
		}
		if len(r) == 0 {
			return nil, false
		}
		rows[k] = r
	}

	linkOf := make([]int, n)
	for v := range linkOf {
		linkOf[v] = unlinked
	}
	isSite := make([]bool, n)
	used := make([]bool, len(rows))
	for k, c := range m.Constraints {
		z, x, ok := linkRow(c, rows[k])
		if !ok {
			continue
		}
		if linkOf[z] != unlinked {
			return nil, false
		}
		linkOf[z] = x
		isSite[x] = true
		used[k] = true
	}
	for v := range linkOf {
		if linkOf[v] != unlinked && isSite[v] {
			return nil, false
		}
	}

	groupOf := make([]int, n)
	for v := range groupOf {
		groupOf[v] = unlinked
	}
	var groupRows [][]int
	budgetRow, countRow := -1, -1
	for k, c := range m.Constraints {
		if used[k] {
			continue
		}
		r := rows[k]
		switch {
		case allAssignments(r, linkOf):
			if c.Op != milp.LessEq || c.RHS != 1 {
				return nil, false
			}
			var members []int
			for v, a := range r {
				if a != 1 || groupOf[v] != unlinked {
					return nil, false
				}
				groupOf[v] = len(groupRows)
				members = append(members, v)
			}
			sort.Ints(members)
			groupRows = append(groupRows, members)
		case noAssignments(r, linkOf):
			for v, a := range r {
				isSite[v] = true
				if c.Op == milp.LessEq && a < 0 || c.Op == milp.GreaterEq && a != 1 {
					return nil, false
				}
			}
			switch {
			case c.Op == milp.LessEq && budgetRow < 0:
				budgetRow = k
			case c.Op == milp.GreaterEq && countRow < 0:
				countRow = k
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}

	cm := &coverageModel{m: m, budget: math.Inf(1)}
	pos := make([]int, n)
	for v := 0; v < n; v++ {
		switch {
		case linkOf[v] != unlinked:
			if obj[v] < 0 {
				return nil, false
			}
		case obj[v] != 0:
			return nil, false
		case isSite[v]:
			pos[v] = len(cm.sites)
			cm.sites = append(cm.sites, v)
		}
	}
	cm.cost = make([]float64, len(cm.sites))
	if budgetRow >= 0 {
		for v, a := range rows[budgetRow] {
			cm.cost[pos[v]] = a
		}
		cm.budget = m.Constraints[budgetRow].RHS
	}
	if countRow >= 0 {
		if len(rows[countRow]) != len(cm.sites) {
			return nil, false
		}
		cm.minCount = int(math.Ceil(m.Constraints[countRow].RHS - tol))
	}

	// Assignments outside any group row form a group of their own.
	for v := 0; v < n; v++ {
		if linkOf[v] != unlinked && groupOf[v] == unlinked {
			groupOf[v] = len(groupRows)
			groupRows = append(groupRows, []int{v})
		}
	}
	cm.groups = make([][]coverOption, len(groupRows))
	cm.bySite = make([][]siteOption, len(cm.sites))
	for g, members := range groupRows {
		for _, z := range members {
			site := pos[linkOf[z]]
			cm.groups[g] = append(cm.groups[g], coverOption{site: site, assign: z, weight: obj[z]})
			cm.bySite[site] = append(cm.bySite[site], siteOption{group: g, weight: obj[z]})
		}
	}
	return cm, true
}

// linkRow matches z - x <= 0.
func linkRow(c milp.Constraint, r map[int]float64) (z, x int, ok bool) {
	if c.Op != milp.LessEq || c.RHS != 0 || len(r) != 2 {
		return 0, 0, false
	}
	z, x = -1, -1
	for v, a := range r {
		switch a {
		case 1:
			z = v
		case -1:
			x = v
		}
	}
	return z, x, z >= 0 && x >= 0
}

func allAssignments(r map[int]float64, linkOf []int) bool {
	for v := range r {
		if linkOf[v] == unlinked {
			return false
		}
	}
	return true
}

func noAssignments(r map[int]float64, linkOf []int) bool {
	for v := range r {
		if linkOf[v] != unlinked {
			return false
		}
	}
	return true
}

// coverSearch is a depth-first branch and bound over the build variables.
// Coverage is submodular, so the sum of marginal gains packed into the
// remaining budget bounds any completion of a node.
type coverSearch struct {
	ctx      context.Context
	cm       *coverageModel
	tol      float64
	integ    bool
	maxNodes int

	nodes int
	state []int8
	cur   []float64 // weight currently served per group
	stop  milp.Status

	have    bool
	best    float64
	bestSet []bool
}

func (s *BranchAndBound) solveCoverage(ctx context.Context, cm *coverageModel, tol float64, start time.Time) (milp.Solution, error) {
	cs := &coverSearch{
		ctx:      ctx,
		cm:       cm,
		tol:      tol,
		integ:    cm.m.IntegralObjective(),
		maxNodes: s.MaxNodes,
		state:    make([]int8, len(cm.sites)),
		cur:      make([]float64, len(cm.groups)),
	}
	for i := range cs.state {
		cs.state[i] = free
	}
	if cm.budget < -tol {
		return milp.Solution{Status: milp.StatusInfeasible, Elapsed: time.Since(start)}, nil
	}
	ok := cs.visit(0, cm.budget, 0)
	sol := milp.Solution{Nodes: cs.nodes, Elapsed: time.Since(start)}
	if !ok {
		sol.Status = cs.stop
		return sol, nil
	}
	if !cs.have {
		sol.Status = milp.StatusInfeasible
		return sol, nil
	}
	vals := cm.values(cs.bestSet)
	if !cm.m.Feasible(vals, tol) {
		return milp.Solution{}, errors.New("coverage search produced an infeasible assignment")
	}
	sol.Status = milp.StatusOptimal
	sol.Values = vals
	sol.Objective = cm.m.Evaluate(vals)
	return sol, nil
}

// visit explores the node described by s.state and returns false when the
// search was interrupted.
func (s *coverSearch) visit(val, rem float64, count int) bool {
	if s.ctx.Err() != nil {
		s.stop = milp.StatusTimeLimit
		return false
	}
	if s.maxNodes > 0 && s.nodes >= s.maxNodes {
		s.stop = milp.StatusNotSolved
		return false
	}
	s.nodes++
	cm := s.cm

	open := make([]bool, len(cm.sites))
	var candidates []int
	for i, st := range s.state {
		if st == free && cm.cost[i] <= rem+s.tol {
			open[i] = true
			candidates = append(candidates, i)
		}
	}
	need := cm.minCount - count
	if need > len(candidates) {
		return true
	}
	var cheapest []int
	if need > 0 {
		cheapest = append([]int(nil), candidates...)
		sort.SliceStable(cheapest, func(a, b int) bool { return cm.cost[cheapest[a]] < cm.cost[cheapest[b]] })
		cheapest = cheapest[:need]
		var sum float64
		for _, i := range cheapest {
			sum += cm.cost[i]
		}
		if sum > rem+s.tol {
			return true
		}
	} else {
		s.offer(val, nil)
	}

	gains := make([]float64, len(cm.sites))
	var items []int
	for _, i := range candidates {
		for _, o := range cm.bySite[i] {
			if o.weight > s.cur[o.group] {
				gains[i] += o.weight - s.cur[o.group]
			}
		}
		if gains[i] > s.tol {
			items = append(items, i)
		}
	}
	if len(items) == 0 {
		// Nothing left adds coverage: fill the minimum with the cheapest sites.
		if need > 0 {
			s.offer(val, cheapest)
		}
		return true
	}
	sort.SliceStable(items, func(a, b int) bool {
		return ratio(gains[items[a]], cm.cost[items[a]]) > ratio(gains[items[b]], cm.cost[items[b]])
	})
	if s.have && !improves(s.bound(val, rem, items, gains, open), s.best, s.tol, s.integ) {
		return true
	}

	i := items[0]
	saved := s.include(i)
	s.state[i] = fixed1
	if !s.visit(val+gains[i], rem-cm.cost[i], count+1) {
		return false
	}
	for _, o := range saved {
		s.cur[o.group] = o.weight
	}
	s.state[i] = fixed0
	if !s.visit(val, rem, count) {
		return false
	}
	s.state[i] = free
	return true
}

// bound is the smaller of the fractional knapsack over marginal gains and the
// coverage reached by building every open site.
func (s *coverSearch) bound(val, rem float64, items []int, gains []float64, open []bool) float64 {
	knap, left := val, rem
	for _, i := range items {
		c := s.cm.cost[i]
		if c <= left {
			knap += gains[i]
			left -= c
			continue
		}
		knap += gains[i] * left / c
		break
	}
	all := val
	for g, opts := range s.cm.groups {
		top := s.cur[g]
		for _, o := range opts {
			if open[o.site] && o.weight > top {
				top = o.weight
			}
		}
		all += top - s.cur[g]
	}
	return math.Min(knap, all)
}

// include marks site i as built and returns the group weights it replaced.
func (s *coverSearch) include(i int) []siteOption {
	var saved []siteOption
	for _, o := range s.cm.bySite[i] {
		if o.weight > s.cur[o.group] {
			saved = append(saved, siteOption{group: o.group, weight: s.cur[o.group]})
			s.cur[o.group] = o.weight
		}
	}
	// Restore in reverse so repeated groups end at their original weight.
	for l, r := 0, len(saved)-1; l < r; l, r = l+1, r-1 {
		saved[l], saved[r] = saved[r], saved[l]
	}
	return saved
}

func (s *coverSearch) offer(val float64, extra []int) {
	if s.have && val <= s.best+s.tol {
		return
	}
	set := make([]bool, len(s.state))
	for i, st := range s.state {
		set[i] = st == fixed1
	}
	for _, i := range extra {
		set[i] = true
	}
	s.have = true
	s.best = val
	s.bestSet = set
}

// values expands a set of built sites into a full assignment. Each group is
// served by its heaviest built option.
func (cm *coverageModel) values(built []bool) []float64 {
	vals := make([]float64, cm.m.NumVars())
	for i, v := range cm.sites {
		if built[i] {
			vals[v] = 1
		}
	}
	for _, opts := range cm.groups {
		pick := -1
		for k, o := range opts {
			if built[o.site] && (pick < 0 || o.weight > opts[pick].weight) {
				pick = k
			}
		}
		if pick >= 0 {
			vals[opts[pick].assign] = 1
		}
	}
	return vals
}

func ratio(gain, cost float64) float64 {
	if cost <= 0 {
		return math.Inf(1)
	}
	return gain / cost
}

// improves reports whether a node bound can beat the incumbent.
func improves(bound, best, tol float64, integ bool) bool {
	if integ {
		return math.Floor(bound+tol) > best+0.5
	}
	return bound > best+tol*math.Max(1, math.Abs(best))
}
