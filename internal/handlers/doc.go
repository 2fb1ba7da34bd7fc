// Package handlers implements the status API of the spo-migrator.
//
// The API is read-only: it exposes the run history recorded while jobs are
// monitored. Handlers delegate to services.JobService and only deal with
// parameter parsing, error mapping and model-to-API conversion.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│              v1.RegisterHandlers (api/v1/types.go)              │
//	│  - Path id parsed as uuid                                       │
//	│  - page, pageSize and state query parameters parsed             │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     services.JobService                         │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬───────────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint          │ Description                              │
//	├────────┼───────────────────┼──────────────────────────────────────────┤
//	│ GET    │ /jobs             │ List jobs, most recent first             │
//	│ GET    │ /jobs/{id}        │ Get the status of a job                  │
//	│ GET    │ /jobs/{id}/events │ Report messages in arrival order         │
//	│ GET    │ /jobs/{id}/logs   │ Report logs downloaded after JobEnd      │
//	└────────┴───────────────────┴──────────────────────────────────────────┘
//
// # Jobs Handler
//
// GET /jobs query parameters:
//
//	┌──────────┬──────────┬─────────────────────────────────────────┐
//	│ Parameter│ Type     │ Description                             │
//	├──────────┼──────────┼─────────────────────────────────────────┤
//	│ state    │ []string │ Filter by job state (OR logic)          │
//	│ page     │ int      │ Page number (default: 1)                │
//	│ pageSize │ int      │ Items per page (default: 20, max: 100)  │
//	└──────────┴──────────┴─────────────────────────────────────────┘
//
// Response:
//
//	{
//	    "page": 1,
//	    "pageCount": 1,
//	    "total": 1,
//	    "jobs": [
//	        {
//	            "id": "5f0c...",
//	            "state": "ended",
//	            "filesCreated": 10,
//	            "totalErrors": 1,
//	            "warnings": 0,
//	            "events": 5,
//	            "createdAt": "2024-03-01T10:00:00Z",
//	            "updatedAt": "2024-03-01T10:04:12Z"
//	        }
//	    ]
//	}
//
// Errors:
//   - 400 Bad Request: invalid id, page, pageSize or state
//   - 404 Not Found: unknown job
//   - 500 Internal Server Error: store failure (logged)
package handlers
