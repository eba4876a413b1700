package cache

// Status snapshots for the /api/cache-status endpoint.

type TodayStatus struct {
	Cached bool   `json:"cached"`
	Key    string `json:"key,omitempty"`
	Count  int    `json:"count"`
	AgeMS  int64  `json:"age_ms"`
	Valid  bool   `json:"valid"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
}

type MapStatus struct {
	Count  int      `json:"count"`
	Keys   []string `json:"keys"`
	Hits   int64    `json:"hits"`
	Misses int64    `json:"misses"`
}

type MetadataStatus struct {
	Cached bool  `json:"cached"`
	AgeMS  int64 `json:"age_ms"`
	Valid  bool  `json:"valid"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

type Status struct {
	Today     TodayStatus    `json:"today_news"`
	Responses MapStatus      `json:"api_responses"`
	Archives  MapStatus      `json:"archives"`
	Metadata  MetadataStatus `json:"metadata"`
}

const statusKeyLimit = 5

func (c *TodayCache) Status() TodayStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := TodayStatus{
		Cached: c.articles != nil,
		Key:    c.key,
		Count:  len(c.articles),
		Hits:   c.hits,
		Misses: c.misses,
	}
	if !c.lastUpdate.IsZero() {
		age := c.now().Sub(c.lastUpdate)
		st.AgeMS = age.Milliseconds()
		st.Valid = st.Cached && age < c.ttl
	}
	return st
}

func (c *TTLCache) Status() MapStatus {
	c.mu.RLock()
	hits, misses := c.hits, c.misses
	c.mu.RUnlock()

	return MapStatus{
		Count:  c.Len(),
		Keys:   c.Keys(statusKeyLimit),
		Hits:   hits,
		Misses: misses,
	}
}

func (c *MetadataCache) Status() MetadataStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := MetadataStatus{
		Cached: c.data != nil,
		Hits:   c.hits,
		Misses: c.misses,
	}
	if !c.lastUpdate.IsZero() {
		age := c.now().Sub(c.lastUpdate)
		st.AgeMS = age.Milliseconds()
		st.Valid = st.Cached && age < c.ttl
	}
	return st
}

func (c *Caches) Status() Status {
	return Status{
		Today:     c.Today.Status(),
		Responses: c.Responses.Status(),
		Archives:  c.Archives.Status(),
		Metadata:  c.Metadata.Status(),
	}
}
