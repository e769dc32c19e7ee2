package browser

import (
	"encoding/json"
	"strings"
)

// Scripts are called with the target document as their first argument.
// XPath result types are numeric: 9 is FIRST_ORDERED_NODE_TYPE and 7 is
// ORDERED_NODE_SNAPSHOT_TYPE.
const (
	fillScript = `(function(doc, name, value) {
	var el = doc.getElementsByName(name)[0];
	if (!el) { return "no element named " + name; }
	el.focus();
	el.value = value;
	el.dispatchEvent(new Event("input", {bubbles: true}));
	el.dispatchEvent(new Event("change", {bubbles: true}));
	return "";
})`

	clickNamedScript = `(function(doc, name) {
	var el = doc.getElementsByName(name)[0];
	if (!el) { return "no element named " + name; }
	el.click();
	return "";
})`

	clickLinkScript = `(function(doc, text) {
	var links = doc.getElementsByTagName("a");
	for (var i = 0; i < links.length; i++) {
		if ((links[i].innerText || links[i].textContent || "").trim() === text) {
			links[i].click();
			return "";
		}
	}
	return "no link with text " + text;
})`

	clickXPathScript = `(function(doc, xp) {
	var el = doc.evaluate(xp, doc, null, 9, null).singleNodeValue;
	if (!el) { return "nothing matches " + xp; }
	el.click();
	return "";
})`

	frameReadyScript = `(function(name) {
	try {
		var f = window.frames[name];
		return !!(f && f.document && f.document.readyState === "complete");
	} catch (e) {
		return false;
	}
})`

	xpathPresentScript = `(function(frame, xp) {
	try {
		var doc = frame ? window.frames[frame].document : document;
		return !!doc.evaluate(xp, doc, null, 9, null).singleNodeValue;
	} catch (e) {
		return false;
	}
})`

	rowsScript = `(function(doc, xp) {
	var table = doc.evaluate(xp, doc, null, 9, null).singleNodeValue;
	if (!table) { return {found: false, rows: []}; }
	var trs = doc.evaluate(".//tr", table, null, 7, null);
	var rows = [];
	for (var i = 0; i < trs.snapshotLength; i++) {
		var tr = trs.snapshotItem(i);
		var tds = doc.evaluate(".//td", tr, null, 7, null);
		var row = {bgcolor: tr.getAttribute("bgcolor") || "", cells: []};
		for (var j = 0; j < tds.snapshotLength; j++) {
			var td = tds.snapshotItem(j);
			row.cells.push({bgcolor: td.getAttribute("bgcolor") || "", text: (td.innerText || td.textContent || "").trim()});
		}
		rows.push(row);
	}
	return {found: true, rows: rows};
})`

	clickCellScript = `(function(doc, xp, i, j) {
	var table = doc.evaluate(xp, doc, null, 9, null).singleNodeValue;
	if (!table) { return "nothing matches " + xp; }
	var tr = doc.evaluate(".//tr", table, null, 7, null).snapshotItem(i);
	if (!tr) { return "no row " + i; }
	var td = doc.evaluate(".//td", tr, null, 7, null).snapshotItem(j);
	if (!td) { return "no cell " + j + " in row " + i; }
	td.click();
	return "";
})`

	selectScript = `(function(doc, name, value) {
	var el = doc.getElementsByName(name)[0];
	if (!el) { return "no select named " + name; }
	var found = false;
	for (var i = 0; i < el.options.length; i++) {
		if (el.options[i].value === value) { found = true; break; }
	}
	if (!found) { return "no option " + value + " in " + name; }
	el.value = value;
	el.dispatchEvent(new Event("change", {bubbles: true}));
	return "";
})`
)

// documentExpr is the JavaScript expression for the document of the named
// frame of the top window, or the top document itself.
func documentExpr(frame string) string {
	if frame == "" {
		return "document"
	}
	return "window.frames[" + jsString(frame) + "].document"
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func call(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ", ") + ")"
}
