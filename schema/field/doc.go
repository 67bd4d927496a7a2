// Package field describes the columns (properties) of an ER schema table.
//
// Column names are the keys of a table's properties map. The descriptor only
// carries storage facts; it does not know its own name:
//
//	properties:
//	  email:  {type: varchar, length: 255, unique: true}
//	  status: {type: enum, enum: [active, banned], dbEnumName: user_status}
//
// Enum columns default to a native database enum (useDbEnum: true), which
// requires dbEnumName.
package field
