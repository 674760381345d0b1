package mapreduce

// Shuffle groups the output of every mapper task by word. Each pair
// is visited exactly once and its count appended to its word's list;
// summing is left to the reducer. Groups come back in order of each
// word's first appearance in mapped.
//
// Shuffle is the barrier between the stages: it must only be called
// once every mapper has returned.
func Shuffle(mapped [][]WordCount) []WordCounts {
	index := make(map[string]int)
	var groups []WordCounts

	for _, kvs := range mapped {
		for _, kv := range kvs {
			i, ok := index[kv.Word]
			if !ok {
				i = len(groups)
				index[kv.Word] = i
				groups = append(groups, WordCounts{Word: kv.Word})
			}
			groups[i].Counts = append(groups[i].Counts, kv.Count)
		}
	}
	return groups
}
