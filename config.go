// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

// configs is used to store the values of the different parameters of a
// unification table
type configs struct {
	tablesize int     // initial number of buckets in the unification table
	maxload   float64 // load factor that triggers a rehash
}

const _DEFAULTTABLESIZE int = 1 << 10

const _DEFAULTMAXLOAD float64 = 0.75

func makeconfigs() *configs {
	return &configs{
		tablesize: _DEFAULTTABLESIZE,
		maxload:   _DEFAULTMAXLOAD,
	}
}

// TableSize is a configuration option (function). Used as a parameter in
// NewTable or NewUnicity it sets a preferred initial number of buckets for
// the unification table. The table grows during computation; the initial
// size only saves early rehashes. Values below 2 are ignored and the default
// is kept.
func TableSize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 2 {
			c.tablesize = size
		}
	}
}

// MaxLoadFactor is a configuration option (function). Used as a parameter in
// NewTable or NewUnicity it sets the load factor at which the unification
// table doubles its bucket array. Values outside (0, 1] are ignored. The
// default is 0.75.
func MaxLoadFactor(f float64) func(*configs) {
	return func(c *configs) {
		if f > 0 && f <= 1 {
			c.maxload = f
		}
	}
}
