package metrics

import (
	"math"
	"math/rand"
	"time"
)

// minLevelGain stops the level loop once an aggregation level no longer
// improves modularity by a meaningful amount.
const minLevelGain = 1e-9

// Partition is the community structure found for one band's graph.
type Partition struct {
	NodeToCommunity []int   `json:"node_to_community"` // community ID per channel, dense from 0
	NumCommunities  int     `json:"num_communities"`
	Modularity      float64 `json:"modularity"`
	Levels          int     `json:"levels"` // aggregation levels run
	Moves           int     `json:"moves"`  // accepted node moves across all levels
}

// DetectCommunities partitions the graph by greedy modularity optimization:
// repeated local moving of nodes between communities, then aggregation of
// communities into super-nodes, until a level stops improving modularity.
// Node visiting order is shuffled with opts.RandomSeed, so equal seeds give
// equal partitions; a negative seed draws from the clock.
func DetectCommunities(g *Graph, opts Options) *Partition {
	seed := opts.RandomSeed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	work := newCommGraph(g.n)
	for i := 0; i < g.n; i++ {
		for j := i + 1; j < g.n; j++ {
			if w := g.weights.At(i, j); w > 0 {
				work.addEdge(i, j, w)
			}
		}
	}

	// assign maps each original channel to its node in the current level's
	// graph; at level zero that is the channel itself.
	assign := make([]int, g.n)
	for i := range assign {
		assign[i] = i
	}

	state := newCommunityState(work)
	q := state.modularity(work)
	levels, totalMoves := 0, 0

	for level := 0; level < opts.MaxLevels; level++ {
		moves := oneLevel(work, state, rng, opts.MaxIterations)
		if moves == 0 {
			break
		}
		totalMoves += moves
		levels++

		super, renumber := aggregate(work, state)
		for i := range assign {
			assign[i] = renumber[state.nodeToComm[assign[i]]]
		}

		newQ := state.modularity(work)
		improved := newQ-q > minLevelGain
		q = newQ
		if !improved || super.n == work.n {
			break
		}
		work = super
		state = newCommunityState(super)
	}

	// Renumber communities densely in order of first appearance so channel 0
	// always lands in community 0.
	ids := make(map[int]int)
	final := make([]int, len(assign))
	next := 0
	for i, c := range assign {
		id, ok := ids[c]
		if !ok {
			id = next
			ids[c] = id
			next++
		}
		final[i] = id
	}

	return &Partition{
		NodeToCommunity: final,
		NumCommunities:  next,
		Modularity:      q,
		Levels:          levels,
		Moves:           totalMoves,
	}
}

// commGraph is an adjacency-list graph that, unlike Graph, carries the
// self-loops produced when communities collapse into super-nodes.
type commGraph struct {
	n        int
	adj      [][]int
	w        [][]float64
	strength []float64 // weighted degree; self-loops count twice
	total    float64   // sum of edge weights, self-loops once
}

func newCommGraph(n int) *commGraph {
	return &commGraph{
		n:        n,
		adj:      make([][]int, n),
		w:        make([][]float64, n),
		strength: make([]float64, n),
	}
}

func (g *commGraph) addEdge(from, to int, weight float64) {
	g.adj[from] = append(g.adj[from], to)
	g.w[from] = append(g.w[from], weight)
	g.strength[from] += weight
	if from != to {
		g.adj[to] = append(g.adj[to], from)
		g.w[to] = append(g.w[to], weight)
		g.strength[to] += weight
	} else {
		g.strength[from] += weight
	}
	g.total += weight
}

func (g *commGraph) selfWeight(node int) float64 {
	for i, nb := range g.adj[node] {
		if nb == node {
			return g.w[node][i]
		}
	}
	return 0
}

// communityState tracks the current assignment with flat per-community
// totals so modularity and move gains come from O(1) bookkeeping.
type communityState struct {
	nodeToComm   []int
	commNodes    [][]int
	commWeights  []float64 // sum of member strengths
	commInternal []float64 // doubled weight internal to the community
}

func newCommunityState(g *commGraph) *communityState {
	s := &communityState{
		nodeToComm:   make([]int, g.n),
		commNodes:    make([][]int, g.n),
		commWeights:  make([]float64, g.n),
		commInternal: make([]float64, g.n),
	}
	for i := 0; i < g.n; i++ {
		s.nodeToComm[i] = i
		s.commNodes[i] = []int{i}
		s.commWeights[i] = g.strength[i]
		s.commInternal[i] = 2 * g.selfWeight(i)
	}
	return s
}

func (s *communityState) modularity(g *commGraph) float64 {
	if g.total == 0 {
		return 0
	}
	m2 := 2 * g.total
	q := 0.0
	for c := range s.commNodes {
		if len(s.commNodes[c]) == 0 {
			continue
		}
		frac := s.commWeights[c] / m2
		q += s.commInternal[c]/m2 - frac*frac
	}
	return q
}

// weightToComm sums the edge weights from node to members of comm,
// excluding any self-loop on node.
func (s *communityState) weightToComm(g *commGraph, node, comm int) float64 {
	sum := 0.0
	for i, nb := range g.adj[node] {
		if nb == node {
			continue
		}
		if s.nodeToComm[nb] == comm {
			sum += g.w[node][i]
		}
	}
	return sum
}

func (s *communityState) remove(g *commGraph, node, comm int) {
	nodes := s.commNodes[comm]
	for i, n := range nodes {
		if n == node {
			s.commNodes[comm] = append(nodes[:i], nodes[i+1:]...)
			break
		}
	}
	s.commWeights[comm] -= g.strength[node]
	s.commInternal[comm] -= 2*s.weightToComm(g, node, comm) + 2*g.selfWeight(node)
	s.nodeToComm[node] = -1
}

func (s *communityState) insert(g *commGraph, node, comm int) {
	s.commNodes[comm] = append(s.commNodes[comm], node)
	s.commWeights[comm] += g.strength[node]
	s.commInternal[comm] += 2*s.weightToComm(g, node, comm) + 2*g.selfWeight(node)
	s.nodeToComm[node] = comm
}

// gain is the modularity change (up to a constant factor) of placing node
// into comm, given the total edge weight from the node to that community.
func gain(g *commGraph, s *communityState, node, comm int, edgeWeight float64) float64 {
	return edgeWeight - g.strength[node]*s.commWeights[comm]/(2*g.total)
}

// oneLevel runs local moving until no node improves its community or the
// iteration cap is hit, and returns the number of accepted moves. Ties
// between equally good candidates go to the smaller community ID so results
// do not depend on map iteration order.
func oneLevel(g *commGraph, state *communityState, rng *rand.Rand, maxIterations int) int {
	if g.total == 0 {
		return 0
	}
	totalMoves := 0
	nodes := make([]int, g.n)
	for i := range nodes {
		nodes[i] = i
	}

	for iter := 0; iter < maxIterations; iter++ {
		moves := 0
		rng.Shuffle(len(nodes), func(i, j int) {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		})

		for _, node := range nodes {
			oldComm := state.nodeToComm[node]
			state.remove(g, node, oldComm)

			neighborComms := map[int]float64{oldComm: 0}
			for i, nb := range g.adj[node] {
				if nb == node {
					continue
				}
				neighborComms[state.nodeToComm[nb]] += g.w[node][i]
			}

			bestComm := oldComm
			bestGain := gain(g, state, node, oldComm, neighborComms[oldComm])
			for comm, ew := range neighborComms {
				if comm == oldComm {
					continue
				}
				cand := gain(g, state, node, comm, ew)
				switch {
				case cand > bestGain+1e-12:
					bestComm, bestGain = comm, cand
				case math.Abs(cand-bestGain) <= 1e-12 && bestComm != oldComm && comm < bestComm:
					bestComm = comm
				}
			}

			state.insert(g, node, bestComm)
			if bestComm != oldComm {
				moves++
			}
		}

		totalMoves += moves
		if moves == 0 {
			break
		}
	}
	return totalMoves
}

// aggregate collapses each non-empty community into a single node. Weights
// between communities sum into one edge; weight inside a community becomes a
// self-loop. Returns the super-graph and the community-to-node renumbering.
func aggregate(g *commGraph, s *communityState) (*commGraph, []int) {
	renumber := make([]int, len(s.commNodes))
	for i := range renumber {
		renumber[i] = -1
	}
	next := 0
	for c := range s.commNodes {
		if len(s.commNodes[c]) > 0 {
			renumber[c] = next
			next++
		}
	}

	acc := make(map[[2]int]float64)
	for u := 0; u < g.n; u++ {
		for i, nb := range g.adj[u] {
			if nb < u {
				continue // each undirected edge once, self-loops once
			}
			cu := renumber[s.nodeToComm[u]]
			cv := renumber[s.nodeToComm[nb]]
			if cu > cv {
				cu, cv = cv, cu
			}
			acc[[2]int{cu, cv}] += g.w[u][i]
		}
	}

	super := newCommGraph(next)
	for key, w := range acc {
		super.addEdge(key[0], key[1], w)
	}
	return super, renumber
}
