// Package entry defines the recent-item record tracked by an IDE installation.
//
// The JSON shape mirrors what the IDE writes into its private settings file:
//
//	{
//	  "Key": "c:\\src\\app\\app.sln",
//	  "Value": {
//	    "LocalProperties": {"FullPath": "c:\\src\\app\\app.sln", "Type": 0, "SourceControl": null},
//	    "Remote": null,
//	    "IsFavorite": false,
//	    "LastAccessed": "2024-03-01T09:12:44.1234567Z",
//	    "IsLocal": true,
//	    "HasRemote": false,
//	    "IsSourceControlled": true
//	  }
//	}
//
// Opaque fields ("Remote", "SourceControl") are kept as raw JSON so that
// writing the collection back never drops data the IDE owns.
//
// # Identity
//
// Key is the identity of an entry. It is never regenerated; two records with
// the same Key describe the same logical item.
//
// # Annotations
//
// [Annotated] pairs an entry with per-sync data (the git branch of its
// directory). Annotations are never written back to disk.
package entry
