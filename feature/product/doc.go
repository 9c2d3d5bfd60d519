// Package product is the product catalogue import.
//
// It binds the generic engine to models.Product: Schema declares the
// properties and comparison surface, DefaultSettings the header aliases,
// Hooks the catalogue specific cleanup and checks. Store is both the
// baseline source and the job persister over gorm.
//
// # Flow
//
//  1. Upload parses the file into a session and reconciles it.
//  2. Clients page through Entries with per-status filters.
//  3. StartJob applies a selection on the job monitor.
//  4. The finished job's markdown report is archived under reports/.
//
// # Routes
//
//	POST   /imports                 upload (multipart "file" or {"object": ...})
//	GET    /imports/objects         importable files in the bucket
//	GET    /imports/:id             summary
//	GET    /imports/:id/entries     entries, ?new=true&modified=true...
//	POST   /imports/:id/reconcile   re-reconcile, ?reread=true
//	DELETE /imports/:id             discard
//	POST   /imports/:id/jobs        start job
//	GET    /jobs/:id                progress
//	GET    /jobs/:id/result         result, ?format=markdown
//	DELETE /jobs/:id                cancel
package product
