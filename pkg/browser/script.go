package browser

// captureScript marks the selected subtree, reads computed style for the
// listed properties and dumps every readable stylesheet. Sheets that throw
// on cssRules (cross-origin) are counted. outerHTML leaves shadow trees
// out, so open roots are written back as declarative
// <template shadowrootmode="open"> children of their host for the
// duration of the serialization.
const captureScript = `(selector, props, attr) => {
  const root = selector ? document.querySelector(selector) : document.body;
  if (!root) {
    return JSON.stringify({ found: false });
  }

  const styles = {};
  const hosts = [];
  let next = 0;
  const stack = [root];
  while (stack.length) {
    const el = stack.pop();
    const id = String(next++);
    el.setAttribute(attr, id);
    const cs = getComputedStyle(el);
    const st = {};
    for (const p of props) {
      st[p] = cs.getPropertyValue(p);
    }
    styles[id] = st;
    const kids = Array.from(el.children);
    if (el.shadowRoot) {
      hosts.push(el);
      kids.push(...el.shadowRoot.children);
    }
    for (let i = kids.length - 1; i >= 0; i--) {
      stack.push(kids[i]);
    }
  }

  const sheets = [];
  let skipped = 0;
  const dump = (sheet, href) => {
    let rules;
    try {
      rules = sheet.cssRules;
    } catch (e) {
      skipped++;
      return;
    }
    const parts = [];
    for (const rule of rules) {
      if (rule instanceof CSSImportRule) {
        if (rule.styleSheet) {
          dump(rule.styleSheet, rule.href);
        } else {
          skipped++;
        }
        continue;
      }
      parts.push(rule.cssText);
    }
    sheets.push({ href: href || 'inline', text: parts.join('\n') });
  };
  for (const sheet of document.styleSheets) {
    dump(sheet, sheet.href);
  }
  for (const host of hosts) {
    for (const sheet of host.shadowRoot.styleSheets) {
      dump(sheet, sheet.href);
    }
    for (const sheet of host.shadowRoot.adoptedStyleSheets || []) {
      dump(sheet, 'adopted');
    }
  }

  // innermost hosts first: an inner host lives in its parent's shadow tree,
  // so the parent's innerHTML already carries the inner template
  const templates = [];
  for (let i = hosts.length - 1; i >= 0; i--) {
    const host = hosts[i];
    const tpl = document.createElement('template');
    tpl.setAttribute('shadowrootmode', 'open');
    tpl.innerHTML = host.shadowRoot.innerHTML;
    host.insertBefore(tpl, host.firstChild);
    templates.push(tpl);
  }

  const html = document.documentElement.outerHTML;
  for (const tpl of templates) {
    tpl.remove();
  }
  for (const el of document.querySelectorAll('[' + attr + ']')) {
    el.removeAttribute(attr);
  }
  for (const host of hosts) {
    for (const el of host.shadowRoot.querySelectorAll('[' + attr + ']')) {
      el.removeAttribute(attr);
    }
  }
  return JSON.stringify({ found: true, html, styles, sheets, skipped });
}`
