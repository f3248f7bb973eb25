/*
Package scene declares scene graphs and rule tables as data.

A scene can come from a YAML or JSON file, a Loam repository (one document per
entity) or the fluent Builder. Each source yields a Spec; Build turns a Spec
into an Instance holding a populated memory.Scene and the rule tables to
attach to an engine.

Example file:

	name: dashboard
	entities:
	  - name: menu
	    groups: display
	    display: flex
	    rules:
	      - on: clicked
	        relationship: child
	        change: change_visible
	        source: display:flex
	  - name: cpu
	    parent: menu
	    groups: [display]
	    display: flex
	    identity: 1

Rule fields use the textual forms of relationships (child, custom:1,5),
changes (change_size(100,20,100,4), drag_axis(x)) and predicates
(size:minimized(100,4)).
*/
package scene
