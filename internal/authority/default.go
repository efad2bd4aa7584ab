package authority

// DefaultRules is the deployed authority table. Exact rules outrank wildcard
// rules, so doc_review_proposal stays loremaster-only even though doc_* reads
// are open.
func DefaultRules() []Rule {
	return []Rule{
		// Canonical graph writes: exactly one permitted role. Startup
		// verification asserts this family never widens.
		{Pattern: "graph_create_*", Agents: []string{"loremaster"}},
		{Pattern: "graph_update_*", Agents: []string{"loremaster"}},
		{Pattern: "graph_delete_*", Agents: []string{"loremaster"}},
		{Pattern: "graph_canonize_proposal", Agents: []string{"loremaster"}},

		// Canonical graph reads are open to every role.
		{Pattern: "graph_get_*", Agents: []string{Wildcard}},
		{Pattern: "graph_list_*", Agents: []string{Wildcard}},

		// Narrative flow belongs to the narrator.
		{Pattern: "doc_create_scene", Agents: []string{"narrator"}},
		{Pattern: "doc_update_scene", Agents: []string{"narrator"}},
		{Pattern: "doc_close_scene", Agents: []string{"narrator"}},
		{Pattern: "doc_add_turn", Agents: []string{"narrator"}},

		// Any non-canon-authoritative role may stage a proposed change;
		// only the loremaster reviews them.
		{Pattern: "doc_submit_proposal", Agents: []string{"narrator", "player", "indexer"}},
		{Pattern: "doc_review_proposal", Agents: []string{"loremaster"}},

		{Pattern: "doc_set_working_state", Agents: []string{"narrator", "system"}},
		{Pattern: "doc_create_party", Agents: []string{"narrator"}},
		{Pattern: "doc_split_party", Agents: []string{"narrator"}},
		{Pattern: "doc_merge_party", Agents: []string{"narrator"}},

		// Document reads are open.
		{Pattern: "doc_get_*", Agents: []string{Wildcard}},
		{Pattern: "doc_list_*", Agents: []string{Wildcard}},

		// Subjective memory.
		{Pattern: "memory_store", Agents: []string{"player", "narrator"}},
		{Pattern: "memory_recall", Agents: []string{Wildcard}},
		{Pattern: "memory_list", Agents: []string{Wildcard}},

		// Object archive.
		{Pattern: "object_upload", Agents: []string{"indexer", "system"}},
		{Pattern: "object_delete", Agents: []string{"indexer", "system"}},
		{Pattern: "object_retrieve", Agents: []string{Wildcard}},
		{Pattern: "object_list", Agents: []string{Wildcard}},
		{Pattern: "object_presign", Agents: []string{Wildcard}},

		// Full-text index.
		{Pattern: "search_index", Agents: []string{"indexer", "system"}},
		{Pattern: "search_query", Agents: []string{Wildcard}},
	}
}
