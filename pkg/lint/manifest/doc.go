// Package manifest reads the key table of a module descriptor.
//
// A descriptor is a Python file whose only expression is a dictionary
// literal:
//
//	{
//	    'name': 'Sales',
//	    'version': '17.0.1.0.0',
//	    'license': 'LGPL-3',
//	    'data': ['security/ir.model.access.csv', 'views/sale_views.xml'],
//	}
//
// FromDocument maps every string key to its value node so rules can anchor
// findings on the exact key or value.
package manifest
