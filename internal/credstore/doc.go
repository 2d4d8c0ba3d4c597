package credstore

// Package credstore owns the persisted map of portal accounts.
//
// The backing file is indented JSON keyed by username:
//
//	{
//	  "saf": {
//	    "password": "$6$...",
//	    "role": "admin"
//	  }
//	}
//
// The store holds the map in memory and rewrites the whole file on every
// mutation. All access goes through one mutex; a mutation is durable before
// the call returns.
