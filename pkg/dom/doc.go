// Package dom is the live node tree the client render path mutates.
//
// It models the small part of the browser DOM that directive hooks touch:
// attributes, inline style, the class list, text and inner HTML, and event
// listeners. OuterHTML serializes through golang.org/x/net/html so the
// output matches what a browser reports, including cssText formatting
// such as style="display: none;".
package dom
